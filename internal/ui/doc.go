// Package ui implements the interactive authentication flow using bubbletea's
// Elm architecture.
//
// The [App] model owns a stack of screens and the three navigation operations
// the flow needs: push, replace (drops the current screen from history), and
// back. Screens:
//  1. launch : branding splash, replaced by sign-in after a fixed delay
//  2. sign-in : credential entry with remember-me prefill and persistence
//  3. sign-up : account registration, returns to sign-in on success
//  4. forgot-password : reset email request with delayed back-navigation
//  5. home : authenticated area root with sign-out
//
// Each form screen wraps a state machine from internal/forms; provider calls
// run as [tea.Cmd] functions so the single-threaded update loop never blocks.
// Delayed navigation (splash, reset confirmation) uses [tea.Tick] messages
// tagged with the scheduling screen's instance id, so a tick that outlives
// its screen is dropped instead of acting on a torn-down view.
package ui
