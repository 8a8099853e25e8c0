package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type printer interface {
	print(r result) error
	flush() error
}

func newPrinter(w io.Writer, format string, raw bool) (printer, error) {
	switch format {
	case "text":
		return &textPrinter{w: w, raw: raw}, nil
	case "json":
		enc := json.NewEncoder(w)
		return &jsonPrinter{enc: enc, raw: raw}, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlPrinter{enc: enc, raw: raw}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

type textPrinter struct {
	w   io.Writer
	raw bool
}

func (p *textPrinter) print(r result) error {
	if p.raw && len(r.frame) > 0 {
		if _, err := fmt.Fprintf(p.w, "% X\n  ", r.frame); err != nil {
			return err
		}
	}
	var err error
	switch {
	case r.Error != "" && r.Type != "":
		_, err = fmt.Fprintf(p.w, "%s (0x%02X): error: %s\n", r.Type, r.Code, r.Error)
	case r.Error != "":
		_, err = fmt.Fprintf(p.w, "error: %s\n", r.Error)
	default:
		_, err = fmt.Fprintln(p.w, r.Summary)
	}
	return err
}

func (p *textPrinter) flush() error { return nil }

type jsonPrinter struct {
	enc *json.Encoder
	raw bool
}

func (p *jsonPrinter) print(r result) error {
	if !p.raw {
		r.Hex = ""
	}
	return p.enc.Encode(r)
}

func (p *jsonPrinter) flush() error { return nil }

// yamlPrinter writes one document per frame.
type yamlPrinter struct {
	enc *yaml.Encoder
	raw bool
}

func (p *yamlPrinter) print(r result) error {
	if !p.raw {
		r.Hex = ""
	}
	return p.enc.Encode(r)
}

func (p *yamlPrinter) flush() error { return p.enc.Close() }
