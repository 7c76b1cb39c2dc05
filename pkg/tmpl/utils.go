package tmpl

import (
	"fmt"

	"github.com/kittclouds/nlgkit/pkg/frame"
)

// Utils is the "U" namespace stored templates call to rebuild their data:
//
//	U.gfilter(orgdf, fh_args)           apply the parameters to a frame
//	U.sanitize_fh_args(fh_args, df)     reduce the parameters to column names
func Utils() Namespace {
	return Namespace{
		"gfilter":          gfilter,
		"sanitize_fh_args": sanitizeArgs,
	}
}

func frameArg(fn string, v any) (*frame.Frame, error) {
	df, ok := v.(*frame.Frame)
	if !ok {
		return nil, fmt.Errorf("%w: %s() needs a DataFrame, got %s", ErrType, fn, typeName(v))
	}
	return df, nil
}

func gfilter(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: gfilter() takes 2 arguments", ErrType)
	}
	df, err := frameArg("gfilter", args[0])
	if err != nil {
		return nil, err
	}
	fa, err := frame.ArgsFrom(args[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrType, err)
	}
	return df.Filter(fa)
}

func sanitizeArgs(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: sanitize_fh_args() takes 2 arguments", ErrType)
	}
	df, err := frameArg("sanitize_fh_args", args[1])
	if err != nil {
		return nil, err
	}
	fa, err := frame.ArgsFrom(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrType, err)
	}
	return frame.SanitizeArgs(fa, df).Dict(), nil
}
