package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com
SUMMARY:
Backend engineer who ships reliable services.
EXPERIENCE:
Senior Engineer
Acme Corp • Remote • 01/2020 - Present
• Built a billing platform in Go
• Cut p99 latency by 40%
SKILLS:
Go, PostgreSQL, Kubernetes
EDUCATION:
State University
BSc Computer Science, 2014
`

// getBinaryPath returns the path to the resume_tailor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_tailor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// execute runs the root command in process. Flag values persist between
// runs, so tests pass every flag they rely on.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
