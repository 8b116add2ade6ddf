package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/burrow/pkg/sprite"
)

// LevelValidator checks level files. Warnings from template lint are
// printed to Out and only fail validation in Strict mode.
type LevelValidator struct {
	Strict bool
	Out    io.Writer

	errors []string
}

func (v *LevelValidator) ValidateFile(filename string) error {
	fmt.Fprintf(v.Out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !sprite.IsLevelFile(baseName) {
		return fmt.Errorf("level file must have one of %s extensions: %s",
			strings.Join(sprite.Extensions, ", "), baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if !sprite.ValidID(nameWithoutExt) {
		return fmt.Errorf("level filename '%s' must be lowercase snake_case (e.g., deep_tunnels.yaml, not Deep-Tunnels.yaml)", baseName)
	}

	l, err := sprite.LoadLevel(filename, true)
	if err != nil {
		return fmt.Errorf("file %s failed strict decoding: %w", filename, err)
	}

	v.errors = nil
	for _, err := range sprite.Validate(l) {
		v.addError(err.Error())
	}

	for _, issue := range sprite.Lint(l) {
		if v.Strict {
			v.addError(issue.String())
		} else {
			fmt.Fprintf(v.Out, "  warning: %s\n", issue)
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *LevelValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
