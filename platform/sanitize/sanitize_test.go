package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"<b>Very</b> interested":                "Very interested",
		"call   back\n\ttomorrow":               "call back tomorrow",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "alert(1)",
		"  plain  ":                             "plain",
		"":                                      "",
	}

	for in, want := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}
