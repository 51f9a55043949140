package site

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/rivalscope/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"scheme www and path", "https://www.ShopFast.com/home", "shopfast.com"},
		{"plain domain", "example.com", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"query string", "example.com?ref=ads", "example.com"},
		{"fragment", "example.com#top", "example.com"},
		{"surrounding whitespace", "  Example.COM  ", "example.com"},
		{"repeated www", "www.www.example.com", "example.com"},
		{"keeps subdomain", "blog.example.com/posts/1", "blog.example.com"},
		{"keeps port", "http://127.0.0.1:8080/", "127.0.0.1:8080"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"   ",
		"https://",
		"https://www.",
		"http:///path",
		"exa mple.com",
		"www.bad domain.com/x",
		"www.https://x.com",
		"https://www.https://x.com",
		"http://https://example.com",
		":8080",
		"example.com:",
		"example.com:http",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := Normalize(input)
			if err == nil {
				t.Fatalf("expected error for %q", input)
			}
			if !errors.Is(err, ErrInvalidDomain) {
				t.Errorf("expected ErrInvalidDomain, got %v", err)
			}
			var invalid *InvalidDomainError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidDomainError, got %T", err)
			}
			if invalid.Input != input {
				t.Errorf("expected input %q, got %q", input, invalid.Input)
			}
		})
	}
}

func TestNormalizeProperties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://www.ShopFast.com/home",
		"HTTP://WWW.Example.org/a/b?c=d#e",
		"www.www.travel-deals.io",
		"news.example.co.uk/",
		"localhost:3000",
		"127.0.0.1:8080/",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			once, err := Normalize(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			twice, err := Normalize(once)
			if err != nil {
				t.Fatalf("unexpected error on second pass: %v", err)
			}
			if once != twice {
				t.Errorf("normalize is not idempotent: %q then %q", once, twice)
			}
			if strings.Contains(once, "://") {
				t.Errorf("expected no scheme in %q", once)
			}
			if strings.HasPrefix(once, "www.") {
				t.Errorf("expected no leading www. in %q", once)
			}
			if strings.Contains(once, "/") {
				t.Errorf("expected no path separator in %q", once)
			}
			if once != strings.ToLower(once) {
				t.Errorf("expected lowercase, got %q", once)
			}
		})
	}
}

func TestDomainParts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		domain string
		host   string
		tld    string
		name   string
	}{
		{"shopfast.com", "shopfast.com", "com", "shopfast"},
		{"blog.example.io", "blog.example.io", "io", "blog.example"},
		{"127.0.0.1:8080", "127.0.0.1", "1", "127.0.0"},
		{"localhost", "localhost", "", "localhost"},
	}

	for _, tc := range testCases {
		t.Run(tc.domain, func(t *testing.T) {
			t.Parallel()

			if got := Host(tc.domain); got != tc.host {
				t.Errorf("Host: expected %q, got %q", tc.host, got)
			}
			if got := TLD(tc.domain); got != tc.tld {
				t.Errorf("TLD: expected %q, got %q", tc.tld, got)
			}
			if got := Name(tc.domain); got != tc.name {
				t.Errorf("Name: expected %q, got %q", tc.name, got)
			}
		})
	}
}

func TestUnreachableDomainError(t *testing.T) {
	t.Parallel()

	err := error(&UnreachableDomainError{
		Domain: "example.com",
		Failures: []model.PageFailure{
			{URL: "https://example.com/", Reason: "connection refused"},
		},
	})
	if !errors.Is(err, ErrUnreachableDomain) {
		t.Error("expected errors.Is to match ErrUnreachableDomain")
	}
	if errors.Is(err, ErrInvalidDomain) {
		t.Error("did not expect a match with ErrInvalidDomain")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected failure reason in message, got %q", err.Error())
	}
}
