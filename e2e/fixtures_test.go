//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

const peopleJSON = `[
  {"id": 1, "name": "Alice Liddell", "role": "explorer"},
  {"id": 2, "name": "Bob Builder", "role": "builder"},
  {"id": 3, "name": "Carol Danvers", "role": "pilot", "retired": true},
  {"id": 4, "name": "Dave Bowman", "role": "astronaut"}
]`

// CreateTestWorkspace creates an isolated directory used as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteOptions writes an options file into the workspace
func (tf *TUITestFramework) WriteOptions(name, content string) (string, error) {
	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
