package cmd

import "testing"

func TestArtifactPath(t *testing.T) {
	// A single page keeps the flag value untouched.
	if got := artifactPath("overlay.png", "scans/page1003.png", false); got != "overlay.png" {
		t.Errorf("single page path = %q, want overlay.png", got)
	}

	// Several pages get the page stem appended so artifacts do not
	// overwrite each other.
	if got := artifactPath("overlay.png", "scans/page1003.png", true); got != "overlay_page1003.png" {
		t.Errorf("multi page path = %q, want overlay_page1003.png", got)
	}
	if got := artifactPath("out/deskewed.png", "scans/page1004.tif", true); got != "out/deskewed_page1004.png" {
		t.Errorf("multi page path = %q, want out/deskewed_page1004.png", got)
	}
}
