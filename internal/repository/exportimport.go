package repository

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/amaydixit11/pwm/pkg/secret"
)

// envelopeSchema constrains an import file to the exact shape Export
// produces: a single "contents" object mapping string paths to base64 text.
// Validating before decode means a malformed import file is rejected with a
// clear error instead of a confusing downstream base64 or path failure.
const envelopeSchema = `{
  "type": "object",
  "required": ["contents"],
  "additionalProperties": false,
  "properties": {
    "contents": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    }
  }
}`

// envelope is the JSON shape of an export/import file: repository-relative
// paths mapped to their base64-encoded plaintext.
type envelope struct {
	Contents map[string]string `json:"contents"`
}

// Export decrypts every path in the repository and returns a pretty-printed
// JSON envelope suitable for writing to a file.
func (r *Repository) Export() ([]byte, error) {
	paths, err := r.List("")
	if err != nil {
		return nil, err
	}

	env := envelope{Contents: make(map[string]string, len(paths))}
	for _, rel := range paths {
		p, err := r.Path(rel)
		if err != nil {
			return nil, err
		}
		plaintext, err := r.ReadDecrypt(p)
		if err != nil {
			return nil, err
		}
		env.Contents[rel] = plaintext.Base64Encode()
		plaintext.Close()
	}

	data, err := json.MarshalIndent(&env, "", "  ")
	if err != nil {
		return nil, serialization(err, "encode export envelope")
	}
	return data, nil
}

// Import decodes a JSON envelope produced by Export (or hand-written in the
// same shape) and writes each entry into the repository.
func (r *Repository) Import(data []byte) error {
	schema := gojsonschema.NewStringLoader(envelopeSchema)
	doc := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return serialization(err, "validate import envelope")
	}
	if !result.Valid() {
		return serialization(nil, "import envelope does not match the expected schema: %v", result.Errors())
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return serialization(err, "decode import envelope")
	}

	for rel, encoded := range env.Contents {
		p, err := r.Path(rel)
		if err != nil {
			return err
		}
		plaintext, err := secret.Base64Decode(encoded)
		if err != nil {
			return invalidArgument(err, "decode base64 contents for %q", rel)
		}
		if err := r.WriteEncrypt(p, plaintext); err != nil {
			return err
		}
	}
	return nil
}
