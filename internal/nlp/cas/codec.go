package cas

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/regcat-io/regcat/pkg/errors"
)

// Envelope is the wire form the NLP services exchange: the serialized CAS,
// base64 encoded, plus the content type of the original input.
type Envelope struct {
	CASContent  string `json:"cas_content"`
	ContentType string `json:"content_type"`
}

// Encode serializes a CAS into a wire envelope.
func Encode(c *CAS, contentType string) (*Envelope, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCASEncodeFailed, "serialize CAS")
	}
	return &Envelope{
		CASContent:  base64.StdEncoding.EncodeToString(raw),
		ContentType: contentType,
	}, nil
}

// Decode parses a wire envelope back into a CAS.
func Decode(env *Envelope) (*CAS, error) {
	raw, err := base64.StdEncoding.DecodeString(env.CASContent)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCASDecodeFailed, "decode CAS payload")
	}
	c := New()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCASDecodeFailed, "parse CAS payload")
	}
	return c, nil
}

// WriteGzip writes the CAS gzipped, the form it is archived in object
// storage.
func WriteGzip(c *CAS, w io.Writer) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(c); err != nil {
		_ = gz.Close()
		return errors.Wrap(err, errors.ErrCodeCASEncodeFailed, "gzip CAS")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCASEncodeFailed, "flush gzipped CAS")
	}
	return nil
}

// ReadGzip reads a gzipped CAS.
func ReadGzip(r io.Reader) (*CAS, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCASDecodeFailed, "open gzipped CAS")
	}
	defer gz.Close()

	c := New()
	if err := json.NewDecoder(gz).Decode(c); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCASDecodeFailed, "parse gzipped CAS")
	}
	return c, nil
}

// MarshalGzip is WriteGzip into a byte slice.
func MarshalGzip(c *CAS) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGzip(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//Personal.AI order the ending
