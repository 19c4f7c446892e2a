// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package target describes the platform and architecture a build is for.
package target

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Platform is the operating system family a build targets.
type Platform string

const (
	PlatformHost    Platform = "host"
	PlatformAndroid Platform = "android"
)

// Arch is the CPU architecture (ABI) a build targets.
type Arch string

const (
	ArchHost       Arch = "host"
	ArchArmeabi    Arch = "armeabi"
	ArchArmeabiV7a Arch = "armeabi-v7a"
	ArchArm64V8a   Arch = "arm64-v8a"
	ArchX86        Arch = "x86"
	ArchX86_64     Arch = "x86_64"
)

var platforms = []Platform{PlatformHost, PlatformAndroid}

var archs = []Arch{ArchHost, ArchArmeabi, ArchArmeabiV7a, ArchArm64V8a, ArchX86, ArchX86_64}

// Platforms returns the known platforms.
func Platforms() []Platform { return append([]Platform(nil), platforms...) }

// Archs returns the known architectures.
func Archs() []Arch { return append([]Arch(nil), archs...) }

// ParsePlatform parses a platform name, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range platforms {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// ParseArch parses an architecture name, case-insensitively.
func ParseArch(s string) (Arch, error) {
	for _, a := range archs {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown architecture %q", s)
}

// Target parameterizes every derived path and native build flag.
type Target struct {
	Platform Platform
	Arch     Arch
	Deploy   bool
}

// Host is the target for the machine raft runs on.
func Host() Target {
	return Target{Platform: PlatformHost, Arch: ArchHost}
}

// Parse builds a Target from its platform and architecture names.
func Parse(platform, arch string, deploy bool) (Target, error) {
	p, err := ParsePlatform(platform)
	if err != nil {
		return Target{}, err
	}
	a, err := ParseArch(arch)
	if err != nil {
		return Target{}, err
	}
	return Target{Platform: p, Arch: a, Deploy: deploy}, nil
}

// String returns "platform/arch".
func (t Target) String() string {
	return string(t.Platform) + "/" + string(t.Arch)
}

// Flag is a single native build definition.
type Flag struct {
	Key   string
	Value string
}

// Flags returns the platform specific build definitions for t.
// ndk is the Android NDK root and may be empty.
func (t Target) Flags(ndk string) []Flag {
	switch t.Platform {
	case PlatformAndroid:
		var flags []Flag
		if ndk != "" {
			flags = append(flags,
				Flag{"CMAKE_SYSTEM_NAME", "Android"},
				Flag{"CMAKE_TOOLCHAIN_FILE", filepath.Join(ndk, "build", "cmake", "android.toolchain.cmake")},
			)
		}
		if t.Arch != ArchHost {
			flags = append(flags, Flag{"ANDROID_ABI", string(t.Arch)})
		}
		return flags
	}
	return nil
}
