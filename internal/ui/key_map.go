package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the auth screens.
type keyMap struct {
	next           key.Binding
	prev           key.Binding
	submit         key.Binding
	back           key.Binding
	toggleRemember key.Binding
	togglePassword key.Binding
	signUp         key.Binding
	forgot         key.Binding
	signOut        key.Binding
	quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:           key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:           key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggleRemember: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "remember me")),
		togglePassword: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show password")),
		signUp:         key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "sign up")),
		forgot:         key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "forgot password")),
		signOut:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign out")),
		quit:           key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.submit},
		{k.toggleRemember, k.togglePassword, k.back},
		{k.signUp, k.forgot, k.quit},
	}
}
