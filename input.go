package mws

import "context"

// Input is a typed operation request that knows its own arguments.
type Input interface {
	Args() (Args, error)
}

func (c *Client) invokeInput(ctx context.Context, action string, in Input) (*Response, error) {
	args, err := in.Args()
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "", action, args)
}

// BuildInputParams returns the full parameter set a typed input would send.
func (c *Client) BuildInputParams(action string, in Input) (Params, error) {
	args, err := in.Args()
	if err != nil {
		return nil, err
	}
	return c.BuildParams("", action, args)
}

// compact builds a Struct from fields and returns nil when every field is
// absent, so empty optional composites are omitted entirely.
func compact(fields ...Field) Value {
	for _, f := range fields {
		if f.Value != nil {
			return Struct(fields)
		}
	}
	return nil
}
