/*
Copyright 2025 The KCP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package crypto computes fingerprints of object payloads for change
// detection.
package crypto

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns the hex-encoded SHA-1 of data. Strings and byte slices
// are hashed as-is, everything else is hashed in its JSON encoding, which
// for resource types is their canonical presence-policy payload.
func Fingerprint(data any) (string, error) {
	hash := sha1.New()

	var err error
	switch asserted := data.(type) {
	case string:
		_, err = hash.Write([]byte(asserted))
	case []byte:
		_, err = hash.Write(asserted)
	default:
		err = json.NewEncoder(hash).Encode(data)
	}

	if err != nil {
		return "", fmt.Errorf("failed to fingerprint %T: %w", data, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
