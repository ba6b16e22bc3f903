package mailer

import (
	"strings"
	"testing"
)

func TestRenderMail(t *testing.T) {
	body, err := renderMail(mailContent{
		Title:    "Welcome to the Trailbound family!",
		Name:     "Jonas",
		Lines:    []string{"First line.", "Second line."},
		CTALabel: "Visit your account",
		CTAURL:   "https://example.com/me",
	})
	if err != nil {
		t.Fatalf("renderMail: %v", err)
	}
	for _, want := range []string{
		"Hi Jonas,",
		"First line.",
		"Second line.",
		`href="https://example.com/me"`,
		"Visit your account",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderMailEscapesContent(t *testing.T) {
	body, err := renderMail(mailContent{
		Title: "<script>alert(1)</script>",
		Name:  "Ada",
	})
	if err != nil {
		t.Fatalf("renderMail: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("markup not escaped")
	}
}

func TestFirstName(t *testing.T) {
	cases := map[string]string{
		"Jonas Schmedtmann": "Jonas",
		"Ada":               "Ada",
		"":                  "",
	}
	for in, want := range cases {
		if got := firstName(in); got != want {
			t.Errorf("firstName(%q) = %q, want %q", in, got, want)
		}
	}
}
