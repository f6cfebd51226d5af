package sdk

import "github.com/pkg/errors"

// CommandError is a command failure. It either carries an Output prepared by
// the skill or wraps a plain error.
type CommandError struct {
	Output *Output
	Err    error
}

// NewCommandError returns a failure rendered by the skill itself.
func NewCommandError(output Output) *CommandError {
	return &CommandError{Output: &output}
}

// WrapCommandError returns a failure wrapping err.
func WrapCommandError(err error) *CommandError {
	return &CommandError{Err: err}
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Output != nil {
		for _, b := range e.Output.Blocks {
			if c, ok := b.(Comment); ok {
				return c.Text
			}
		}
		return e.Output.Title
	}
	return "command failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrorOutput converts any command failure into an Output attributed to the
// given skill key.
func ErrorOutput(err error, skillKey string) Output {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Output != nil {
		return *cmdErr.Output
	}
	return NewOutput(skillKey).AddBlock(NewComment(err.Error()))
}
