package shared

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// LoadToken reads the bearer token from the first line of the file at path.
//
// A missing file yields a [CredentialError] of kind [CredentialNotFound];
// an empty, blank or non-text file yields [CredentialInvalid].
func LoadToken(path string) (string, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &CredentialError{Kind: CredentialNotFound, Path: path}
		}
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: err}
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: err}
	}
	if line == "" {
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: fmt.Errorf("empty token file")}
	}

	if !utf8.ValidString(line) {
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: fmt.Errorf("token is not valid text")}
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", &CredentialError{Kind: CredentialInvalid, Path: path, Err: fmt.Errorf("first line is blank")}
	}

	return token, nil
}
