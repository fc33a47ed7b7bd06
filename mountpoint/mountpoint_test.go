package mountpoint

import "testing"

func TestOptionStringDefaults(t *testing.T) {
	got := Options{}.optionString()
	want := "fsname=strato"
	if got != want {
		t.Fatalf("optionString() = %q, want %q", got, want)
	}
}

func TestOptionStringWithNameAndAllowOther(t *testing.T) {
	got := Options{FsName: "demo", Name: "hello", AllowOther: true}.optionString()
	want := "fsname=demo,subtype=hello,allow_other"
	if got != want {
		t.Fatalf("optionString() = %q, want %q", got, want)
	}
}
