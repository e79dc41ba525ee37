package archive

import (
	"strings"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	receivedAt := time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC)

	name := ObjectName("user-1", receivedAt)

	if !strings.HasPrefix(name, "raw/user-1/2024/05/12/") {
		t.Errorf("ObjectName() = %q, want raw/user-1/2024/05/12/ prefix", name)
	}
	if !strings.HasSuffix(name, ".txt") {
		t.Errorf("ObjectName() = %q, want .txt suffix", name)
	}

	// Each call produces a distinct object.
	if ObjectName("user-1", receivedAt) == name {
		t.Error("ObjectName() returned the same path twice")
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"valid", "gs://sms-archive/raw/u/2024/05/12/x.txt", "sms-archive", "raw/u/2024/05/12/x.txt", false},
		{"missing scheme", "sms-archive/raw/x.txt", "", "", true},
		{"no object path", "gs://sms-archive", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}
