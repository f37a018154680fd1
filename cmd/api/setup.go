package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mandalnilabja/promptproxy/internal/secret"
)

// genKey prints a fresh proxy secret and the hash to configure.
func genKey(out io.Writer) error {
	key, err := secret.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	hash, err := secret.Hash(key, secret.DefaultArgon2Params())
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	fmt.Fprintf(out, "Secret (give to clients, shown once):\n  %s\n\n", key)
	fmt.Fprintf(out, "Set on the proxy:\n  PROXY_AUTH_KEY_HASH='%s'\n", hash)
	return nil
}

// hashKey reads one secret line from in and prints its hash.
func hashKey(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	key := strings.TrimSpace(line)
	if key == "" {
		return errors.New("empty secret on stdin")
	}

	hash, err := secret.Hash(key, secret.DefaultArgon2Params())
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	fmt.Fprintln(out, hash)
	return nil
}
