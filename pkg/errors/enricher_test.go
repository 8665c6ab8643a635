package errors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	pkgerrors "github.com/joe/file-inventory/pkg/errors"
)

func TestEnricher_EnrichAlreadyActionableError(t *testing.T) {
	t.Parallel()

	enricher := pkgerrors.NewEnricher()
	originalActionable := pkgerrors.NewActionableError(
		"permission denied",
		pkgerrors.CategoryPermission,
		[]string{"existing suggestion"},
		"/original/path",
	)

	enriched := enricher.Enrich(originalActionable, "/new/path")

	var actionableErr pkgerrors.ActionableError
	if !errors.As(enriched, &actionableErr) {
		t.Fatalf("expected ActionableError, got %T", enriched)
	}

	if actionableErr != originalActionable {
		t.Error("expected same ActionableError instance when enriching ActionableError")
	}
}

func TestEnricher_EnrichNil(t *testing.T) {
	t.Parallel()

	if enriched := pkgerrors.NewEnricher().Enrich(nil, "/x"); enriched != nil {
		t.Errorf("expected nil, got %v", enriched)
	}
}

func TestEnricher_KeepsWrappedSentinel(t *testing.T) {
	t.Parallel()

	original := fmt.Errorf("stat /photos/a.jpg: %w", fs.ErrPermission)

	enriched := pkgerrors.NewEnricher().Enrich(original, "")

	if !errors.Is(enriched, fs.ErrPermission) {
		t.Errorf("expected enriched error to unwrap to fs.ErrPermission, got %v", enriched)
	}

	if pkgerrors.CategoryOf(enriched) != pkgerrors.CategoryPermission {
		t.Errorf("expected permission category, got %q", pkgerrors.CategoryOf(enriched))
	}
}

func TestEnricher_ExtractsPathFromMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		message  string
		expected string
	}{
		{"unix", "stat /home/user/file.txt: no such file or directory", "/home/user/file.txt"},
		{"windows", `open C:\Users\me\a.doc: Access is denied.`, `C:\Users\me\a.doc`},
		{"unc", `lstat \\nas\share\b.mp4: i/o timeout`, `\\nas\share\b.mp4`},
		{"none", "something went wrong", ""},
	}

	enricher := pkgerrors.NewEnricher()

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			enriched := enricher.Enrich(errors.New(testCase.message), "")

			var actionableErr pkgerrors.ActionableError
			if !errors.As(enriched, &actionableErr) {
				t.Fatalf("expected ActionableError, got %T", enriched)
			}

			if actionableErr.AffectedPath() != testCase.expected {
				t.Errorf("expected path %q, got %q", testCase.expected, actionableErr.AffectedPath())
			}
		})
	}
}

func TestCategoryOf_PlainError(t *testing.T) {
	t.Parallel()

	if category := pkgerrors.CategoryOf(errors.New("permission denied")); category != pkgerrors.CategoryUnknown {
		t.Errorf("expected unknown for a plain error, got %q", category)
	}
}
