package azureblob

import "testing"

func TestParseURL(t *testing.T) {
	ref, err := ParseURL("https://acct.blob.core.windows.net/edudron-media/t1/courses/c1/video.mp4")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	if ref.Container != "edudron-media" || ref.Name != "t1/courses/c1/video.mp4" || ref.FileName != "video.mp4" {
		t.Fatalf("ParseURL: got=%+v", ref)
	}

	ref, err = ParseURL("http://127.0.0.1:10000/devstoreaccount1/media/a/b.png")
	if err != nil {
		t.Fatalf("ParseURL emulator: %v", err)
	}
	if ref.Container != "media" || ref.Name != "a/b.png" {
		t.Fatalf("ParseURL emulator: got=%+v", ref)
	}

	for _, bad := range []string{"", "relative/path.png", "https://acct.blob.core.windows.net/only-container", "https://acct.blob.core.windows.net/c/"} {
		if _, err := ParseURL(bad); err == nil {
			t.Fatalf("ParseURL(%q): want error", bad)
		}
	}
}

func TestOwnsURL(t *testing.T) {
	hosts := []string{DefaultHostSuffix, "127.0.0.1:10000"}
	cases := map[string]bool{
		"https://acct.blob.core.windows.net/media/x.png":      true,
		"http://127.0.0.1:10000/devstoreaccount1/media/x.png": true,
		"https://storage.googleapis.com/media/x.png":          false,
		"https://evil.com/acct.blob.core.windows.net/x.png":   false,
		"":                                                    false,
	}
	for u, want := range cases {
		if got := ownsURL(hosts, u); got != want {
			t.Fatalf("ownsURL(%q): want=%v got=%v", u, want, got)
		}
	}
}
