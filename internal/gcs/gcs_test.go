package gcs

import "testing"

func TestSplitURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://my-bucket/statements/march.csv", "my-bucket", "statements/march.csv", false},
		{"gs://my-bucket/file.csv", "my-bucket", "file.csv", false},
		{"gs://my-bucket/", "", "", true},
		{"gs://my-bucket", "", "", true},
		{"https://example.com/file.csv", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		bucket, object, err := SplitURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SplitURI(%q): expected error", tt.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("SplitURI(%q): unexpected error %v", tt.uri, err)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("SplitURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://my-bucket/statements/march.csv", "march.csv"},
		{"gs://my-bucket/file.csv", "file.csv"},
		{"gs://my-bucket", "my-bucket"},
	}
	for _, tt := range tests {
		if got := FilenameFromURI(tt.uri); got != tt.want {
			t.Errorf("FilenameFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
