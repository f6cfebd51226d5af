package sdk

// CommandArgs is a candidate invocation. Args[0] is the target skill key once
// the dispatcher has prefixed it; translators return the remaining arguments.
type CommandArgs struct {
	Args []string `json:"args"`
	Data []Bytes  `json:"data"`
}

// NewCommandArgs returns CommandArgs holding the given arguments.
func NewCommandArgs(args ...string) CommandArgs {
	return CommandArgs{Args: append([]string{}, args...), Data: []Bytes{}}
}

// AddArgs returns a copy with the arguments appended.
func (c CommandArgs) AddArgs(args ...string) CommandArgs {
	c.Args = append(append([]string{}, c.Args...), args...)
	return c
}

// AddData returns a copy with the payloads appended.
func (c CommandArgs) AddData(data ...[]byte) CommandArgs {
	out := make([]Bytes, 0, len(c.Data)+len(data))
	out = append(out, c.Data...)
	for _, d := range data {
		out = append(out, Bytes(d))
	}
	c.Data = out
	return c
}

// AddTextData returns a copy with the text payloads appended.
func (c CommandArgs) AddTextData(data ...string) CommandArgs {
	out := make([]Bytes, 0, len(c.Data)+len(data))
	out = append(out, c.Data...)
	for _, d := range data {
		out = append(out, Bytes(d))
	}
	c.Data = out
	return c
}

// Name returns the skill key, or an empty string for empty args.
func (c CommandArgs) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}
