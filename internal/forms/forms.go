// Package forms holds the per-screen form state machines.
//
// Forms are pure state: field values, an in-flight flag, and at most one
// active error message. They perform the local validation that must
// short-circuit before any provider call, and they gate re-entry so no two
// submissions for the same screen instance can overlap. All I/O stays in the
// screens that own them.
package forms

// Status is the lifecycle of a single submit attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusFailed
	StatusSucceeded
)

// Validation messages surfaced to the user.
const (
	MsgFillAllFields    = "Please fill in all fields."
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgEnterEmail       = "Please enter your email address."
)

// MinPasswordLen is the minimum password length accepted at sign-up.
const MinPasswordLen = 6

// state is the outcome machine shared by all forms:
// Idle -> Submitting -> {Succeeded, Failed}; Failed returns to Idle on any
// field edit or resubmission attempt; Succeeded is terminal for the screen
// instance.
type state struct {
	Status Status
	Err    string
}

// InFlight reports whether a submission is pending.
func (s *state) InFlight() bool { return s.Status == StatusSubmitting }

// Fail records a terminal error for this attempt and leaves the form editable.
func (s *state) Fail(msg string) {
	s.Status = StatusFailed
	s.Err = msg
}

// Succeed marks the attempt successful. Entering success clears any error.
func (s *state) Succeed() {
	s.Status = StatusSucceeded
	s.Err = ""
}

// edit clears a stale error when any field changes.
func (s *state) edit() {
	if s.Status == StatusFailed {
		s.Status = StatusIdle
	}
	s.Err = ""
}

// begin enters the in-flight state, clearing any previous outcome.
func (s *state) begin() {
	s.Status = StatusSubmitting
	s.Err = ""
}

// SignInForm is the sign-in screen's form state.
type SignInForm struct {
	state
	Email      string
	Password   string
	RememberMe bool
}

func (f *SignInForm) SetEmail(v string) {
	if v != f.Email {
		f.Email = v
		f.edit()
	}
}

func (f *SignInForm) SetPassword(v string) {
	if v != f.Password {
		f.Password = v
		f.edit()
	}
}

// Validate returns the local validation error, or "" when the form may be
// submitted.
func (f *SignInForm) Validate() string {
	if f.Email == "" || f.Password == "" {
		return MsgFillAllFields
	}
	return ""
}

// Submit validates and enters the in-flight state. It reports whether the
// caller should start the provider call; false means either a validation
// failure was recorded or a submission is already pending.
func (f *SignInForm) Submit() bool {
	if f.InFlight() {
		return false
	}
	if msg := f.Validate(); msg != "" {
		f.Fail(msg)
		return false
	}
	f.begin()
	return true
}

// SignUpForm is the sign-up screen's form state.
type SignUpForm struct {
	state
	FullName string
	Email    string
	Password string
	Confirm  string
}

func (f *SignUpForm) SetFullName(v string) {
	if v != f.FullName {
		f.FullName = v
		f.edit()
	}
}

func (f *SignUpForm) SetEmail(v string) {
	if v != f.Email {
		f.Email = v
		f.edit()
	}
}

func (f *SignUpForm) SetPassword(v string) {
	if v != f.Password {
		f.Password = v
		f.edit()
	}
}

func (f *SignUpForm) SetConfirm(v string) {
	if v != f.Confirm {
		f.Confirm = v
		f.edit()
	}
}

// Validate checks the sign-up fields in order: completeness, then password
// confirmation, then password length.
func (f *SignUpForm) Validate() string {
	if f.FullName == "" || f.Email == "" || f.Password == "" || f.Confirm == "" {
		return MsgFillAllFields
	}
	if f.Password != f.Confirm {
		return MsgPasswordMismatch
	}
	if len(f.Password) < MinPasswordLen {
		return MsgPasswordTooShort
	}
	return ""
}

// Submit validates and enters the in-flight state; see [SignInForm.Submit].
func (f *SignUpForm) Submit() bool {
	if f.InFlight() {
		return false
	}
	if msg := f.Validate(); msg != "" {
		f.Fail(msg)
		return false
	}
	f.begin()
	return true
}

// ResetForm is the forgot-password screen's form state.
type ResetForm struct {
	state
	Email string
}

func (f *ResetForm) SetEmail(v string) {
	if v != f.Email {
		f.Email = v
		f.edit()
	}
}

func (f *ResetForm) Validate() string {
	if f.Email == "" {
		return MsgEnterEmail
	}
	return ""
}

// Submit validates and enters the in-flight state; see [SignInForm.Submit].
func (f *ResetForm) Submit() bool {
	if f.InFlight() {
		return false
	}
	if msg := f.Validate(); msg != "" {
		f.Fail(msg)
		return false
	}
	f.begin()
	return true
}
