package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// MaxRolls bounds the number of dice a single expression may roll.
const MaxRolls = 100

// Source picks a uniform integer in [0, n).
type Source interface {
	IntN(n int) (int, error)
}

// cryptoSource draws every value from crypto/rand.
type cryptoSource struct{}

func (cryptoSource) IntN(n int) (int, error) {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, errors.Wrap(err, "failed to read random number")
	}
	return int(v.Int64()), nil
}

// pcgSource draws from a PCG generator seeded once per command run.
type pcgSource struct {
	rng *rand.Rand
}

func (s pcgSource) IntN(n int) (int, error) {
	return s.rng.IntN(n), nil
}

// newSource returns the random source for one command run.
func newSource(secure bool) Source {
	if secure {
		return cryptoSource{}
	}
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return pcgSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return pcgSource{rng: rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:])))}
}

// Result is the outcome of evaluating an expression.
type Result struct {
	Total int64
	Rolls []int
}

type roller struct {
	src   Source
	rolls []int
}

func (r *roller) roll(spec Spec) (int64, error) {
	if len(r.rolls)+spec.Count > MaxRolls {
		return 0, ErrTooManyRolls
	}
	var total int64
	for i := 0; i < spec.Count; i++ {
		n, err := r.src.IntN(spec.Sides)
		if err != nil {
			return 0, err
		}
		v := n + 1
		r.rolls = append(r.rolls, v)
		total += int64(v)
	}
	return total, nil
}

// Roll evaluates the expression with src.
func (e *Expression) Roll(src Source) (Result, error) {
	if e.Rolls() > MaxRolls {
		return Result{}, ErrTooManyRolls
	}
	r := &roller{src: src}
	total, err := e.root.eval(r)
	if err != nil {
		return Result{}, err
	}
	return Result{Total: total, Rolls: r.rolls}, nil
}
