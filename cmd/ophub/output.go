package main

import (
	"fmt"
	"os"

	"ophub/internal/format"
)

// structured reports whether the user asked for machine-readable output.
func (o *outputFlags) structured() bool {
	return o.json || o.yaml
}

func (o *outputFlags) formatter() format.Formatter {
	if o.yaml {
		return format.YAMLFormatter{}
	}
	return format.JSONFormatter{}
}

func writeStructured(out *outputFlags, payload any) error {
	return out.formatter().Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}
