package parser

import "io"

// TextExtractor handles plain text files. Line-ending normalization belongs
// to the segmentation engine, so the content passes through untouched.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
