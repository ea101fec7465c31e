package quest

import "io"

// Drain reads r until it ends and returns everything it delivered as one slice. It stops at the first error. A
// stream without any chunks, or one that was drained before, yields an empty slice.
func Drain(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return body, nil
}
