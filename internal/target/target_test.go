// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package target

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		platform, arch string
		want           Target
		wantErr        bool
	}{
		{"host", "host", Target{Platform: PlatformHost, Arch: ArchHost}, false},
		{"Android", "armeabi", Target{Platform: PlatformAndroid, Arch: ArchArmeabi}, false},
		{"android", "ARM64-V8A", Target{Platform: PlatformAndroid, Arch: ArchArm64V8a}, false},
		{"plan9", "host", Target{}, true},
		{"host", "sparc", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.platform+"/"+tt.arch, func(t *testing.T) {
			got, err := Parse(tt.platform, tt.arch, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := Host().String(); got != "host/host" {
		t.Errorf("Host().String() = %q", got)
	}
	tgt := Target{Platform: PlatformAndroid, Arch: ArchX86_64}
	if got := tgt.String(); got != "android/x86_64" {
		t.Errorf("String() = %q", got)
	}
}

func TestFlags(t *testing.T) {
	if got := Host().Flags("/ndk"); len(got) != 0 {
		t.Errorf("host flags = %v, want none", got)
	}

	android := Target{Platform: PlatformAndroid, Arch: ArchArmeabiV7a}
	want := []Flag{
		{"CMAKE_SYSTEM_NAME", "Android"},
		{"CMAKE_TOOLCHAIN_FILE", filepath.Join("/ndk", "build", "cmake", "android.toolchain.cmake")},
		{"ANDROID_ABI", "armeabi-v7a"},
	}
	if diff := cmp.Diff(want, android.Flags("/ndk")); diff != "" {
		t.Errorf("android flags mismatch (-want +got):\n%s", diff)
	}

	want = []Flag{{"ANDROID_ABI", "armeabi-v7a"}}
	if diff := cmp.Diff(want, android.Flags("")); diff != "" {
		t.Errorf("android flags without ndk mismatch (-want +got):\n%s", diff)
	}
}
