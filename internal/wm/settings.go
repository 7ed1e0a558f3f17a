package wm

// Settings holds user-toggleable shell behaviour.
type Settings struct {
	Shortcuts bool `json:"shortcuts" yaml:"shortcuts"`
}

// SettingsPatch names only the settings that change. Nil fields are left
// alone.
type SettingsPatch struct {
	Shortcuts *bool `json:"shortcuts,omitempty"`
}

// Apply returns s with p merged in.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Shortcuts != nil {
		s.Shortcuts = *p.Shortcuts
	}
	return s
}

// Empty reports whether p changes nothing.
func (p SettingsPatch) Empty() bool { return p.Shortcuts == nil }
