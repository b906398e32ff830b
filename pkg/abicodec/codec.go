// Package abicodec packs contract ABIs into compact strings and back.
//
// The packed form is base64(zlib(json)). It is decodable by pako.inflate, and
// strings packed with pako.deflate decode here.
package abicodec

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Compress serializes abi to JSON, deflates it and returns the base64 string
func Compress(abi any) (string, error) {
	var data []byte
	switch v := abi.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return "", fmt.Errorf("invalid JSON")
		}
		data = compact(v)
	case []byte:
		if !json.Valid(v) {
			return "", fmt.Errorf("invalid JSON")
		}
		data = compact(v)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(abi); err != nil {
			return "", fmt.Errorf("failed to marshal ABI: %w", err)
		}
		data = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("failed to deflate ABI: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to deflate ABI: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecompressRaw reverses Compress and returns the JSON document
func DecompressRaw(s string) (json.RawMessage, error) {
	packed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}

	r, err := zlib.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("invalid deflate stream: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("invalid deflate stream: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("decompressed data is not JSON")
	}
	return json.RawMessage(data), nil
}

// Decompress reverses Compress into out
func Decompress(s string, out any) error {
	data, err := DecompressRaw(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// LoadABI reads a JSON document from path and returns it unchanged
func LoadABI(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

// LoadArtifactABI reads a JSON document from path. For Foundry and Hardhat
// artifacts the "abi" field is returned, anything else is returned whole.
func LoadArtifactABI(path string) (json.RawMessage, error) {
	data, err := LoadABI(path)
	if err != nil {
		return nil, err
	}

	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &artifact); err == nil && len(artifact.ABI) > 0 {
		return artifact.ABI, nil
	}
	return data, nil
}

func compact(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}
