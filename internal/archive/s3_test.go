package archive

import "testing"

func TestExtFor(t *testing.T) {
	for _, tc := range []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"application/pdf", ".bin"},
		{"", ".bin"},
	} {
		if got := extFor(tc.mime); got != tc.want {
			t.Errorf("extFor(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	got := objectKey("fleet/images", "BUS-4587", "a1b2c3", "image/png")
	want := "fleet/images/BUS-4587-a1b2c3.png"
	if got != want {
		t.Errorf("objectKey = %q, want %q", got, want)
	}

	// Empty prefix should not produce a leading slash.
	got = objectKey("", "BUS-4587", "a1b2c3", "image/jpeg")
	want = "BUS-4587-a1b2c3.jpg"
	if got != want {
		t.Errorf("objectKey = %q, want %q", got, want)
	}
}
