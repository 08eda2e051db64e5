package textutil

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   \n  ", ""},
		{"Hello **world**", "Hello world"},
		{"first\n\nsecond", "first\n\nsecond"},
		{"- a\n- b", "• a\n• b"},
		{"a &amp; b", "a & b"},
		{"# Title\n\nbody", "Title\n\nbody"},
		{"see [the docs](https://go.dev)", "see the docs"},
		{"it's   fine", "it's fine"},
	}
	for _, tt := range tests {
		got := PlainText(tt.input)
		if got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFromHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"<div><p>Hi <b>there</b></p></div>", "Hi there"},
		{"<p>one</p><p>two</p>", "one\n\ntwo"},
		{`<div class="md"><p>first para</p><p>second para</p></div>`, "first para\n\nsecond para"},
		{"<h2>Title</h2><p>body</p>", "Title\n\nbody"},
		{"<blockquote>quoted</blockquote><p>reply</p>", "quoted\n\nreply"},
		{"line<br/>next", "line\nnext"},
		{"<script>alert(1)</script>safe", "safe"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		got := FromHTML(tt.input)
		if got != tt.want {
			t.Errorf("FromHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
