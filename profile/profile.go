// Package profile maps device-type keys to the prompts a login sequence
// waits on. The table is injectable: the built-in vendor set covers the
// common dialects, Register and LoadFile extend it without touching the
// login sequencer.
package profile

import (
	"fmt"
	"os"

	"github.com/paulo-hortelan/telnet-client/schema"
	"gopkg.in/yaml.v3"
)

// Profile describes the three prompts of a plaintext login exchange.
// UsernamePrompt and PasswordPrompt are literal substrings expected at the
// tail of the output; PromptPattern is a regular expression for the shell
// prompt that confirms the credentials were accepted.
type Profile struct {
	UsernamePrompt string `yaml:"usernamePrompt"`
	PasswordPrompt string `yaml:"passwordPrompt"`
	PromptPattern  string `yaml:"promptPattern"`
}

type Registry struct {
	profiles map[schema.DeviceType]Profile
}

func New() *Registry {
	return &Registry{profiles: make(map[schema.DeviceType]Profile)}
}

// Default returns a registry preloaded with the built-in vendor table.
func Default() *Registry {
	r := New()
	for key, p := range builtin {
		r.profiles[key] = p
	}
	return r
}

var builtin = map[schema.DeviceType]Profile{
	"ios": {
		UsernamePrompt: "Username:",
		PasswordPrompt: "Password:",
		PromptPattern:  `[>#]`,
	},
	"iosxr": {
		UsernamePrompt: "Username:",
		PasswordPrompt: "Password:",
		PromptPattern:  `[>#]`,
	},
	"juniper": {
		UsernamePrompt: "login:",
		PasswordPrompt: "Password:",
		PromptPattern:  `[%>#] ?$`,
	},
	"casa": {
		UsernamePrompt: "Login:",
		PasswordPrompt: "Password:",
		PromptPattern:  `> *$|# *$`,
	},
	"huawei": {
		UsernamePrompt: "Username:",
		PasswordPrompt: "Password:",
		PromptPattern:  `[>\]]`,
	},
	"generic": {
		UsernamePrompt: "login:",
		PasswordPrompt: "Password:",
		PromptPattern:  `> *$|# *$|\$ *$`,
	},
}

func (r *Registry) Register(key schema.DeviceType, p Profile) {
	r.profiles[key] = p
}

// Lookup fails on an unknown key. That is a caller error, distinct from a
// failed login exchange.
func (r *Registry) Lookup(key schema.DeviceType) (Profile, error) {
	p, ok := r.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("no login profile registered for device type %q", key)
	}
	return p, nil
}

func (r *Registry) Types() []schema.DeviceType {
	keys := make([]schema.DeviceType, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	return keys
}

// LoadFile merges profiles from a YAML file, overriding built-ins on key
// collision.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	loaded := map[schema.DeviceType]Profile{}
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("cannot parse profile file %s: %w", path, err)
	}
	for key, p := range loaded {
		r.profiles[key] = p
	}
	return nil
}
