/*
Copyright 2025 The KCP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package version

import (
	"fmt"
	"runtime"
)

// These variables get fed by ldflags during compilation.
var (
	// gitVersion is the output of `git describe` at build time.
	gitVersion string
	// gitHead is the full SHA hash of the Git commit the binary was built from.
	gitHead string
)

type AppVersion struct {
	GitVersion string
	GitHead    string
	GoVersion  string
}

func NewAppVersion() AppVersion {
	v := AppVersion{
		GitVersion: gitVersion,
		GitHead:    gitHead,
		GoVersion:  runtime.Version(),
	}

	if v.GitVersion == "" {
		v.GitVersion = "v0.0.0-dev"
	}

	return v
}

func NewFakeAppVersion() AppVersion {
	return AppVersion{
		GitVersion: "v0.0.0-42-test",
		GitHead:    "d9c09114135c62e207b30891899e7e1ad2493f38",
		GoVersion:  "go1.22.5",
	}
}

func (v AppVersion) String() string {
	if v.GitHead == "" {
		return fmt.Sprintf("%s (%s)", v.GitVersion, v.GoVersion)
	}

	return fmt.Sprintf("%s (%s, %s)", v.GitVersion, v.GitHead, v.GoVersion)
}

// UserAgent is sent with every request to the API server.
func (v AppVersion) UserAgent(app string) string {
	return fmt.Sprintf("%s/%s (%s/%s)", app, v.GitVersion, runtime.GOOS, runtime.GOARCH)
}
