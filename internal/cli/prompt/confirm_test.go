package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
)

type stubRunner struct {
	input string
	err   error
}

func (s stubRunner) Run() (string, error) { return s.input, s.err }

func withStub(t *testing.T, r stubRunner) *string {
	t.Helper()
	var label string
	prev := newDangerPrompt
	newDangerPrompt = func(l, word string) runner {
		label = l
		return r
	}
	t.Cleanup(func() { newDangerPrompt = prev })
	return &label
}

func TestConfirmDanger(t *testing.T) {
	boom := errors.New("terminal gone")
	tests := []struct {
		name    string
		stub    stubRunner
		want    bool
		wantErr error
	}{
		{"typed word", stubRunner{input: "purge"}, true, nil},
		{"wrong word", stubRunner{input: "purg"}, false, nil},
		{"empty", stubRunner{input: ""}, false, nil},
		{"ctrl-c", stubRunner{err: promptui.ErrInterrupt}, false, ErrAborted},
		{"abort", stubRunner{err: promptui.ErrAbort}, false, nil},
		{"eof", stubRunner{err: promptui.ErrEOF}, false, nil},
		{"other error", stubRunner{err: boom}, false, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStub(t, tt.stub)

			ok, err := ConfirmDanger("Remove everything?", "purge")
			if ok != tt.want {
				t.Errorf("ConfirmDanger() = %v, want %v", ok, tt.want)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("ConfirmDanger() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ConfirmDanger() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfirmDanger_Label(t *testing.T) {
	label := withStub(t, stubRunner{input: "purge"})

	if _, err := ConfirmDanger("Remove 3 services?", "purge"); err != nil {
		t.Fatalf("ConfirmDanger returned error: %v", err)
	}
	if !strings.Contains(*label, "Remove 3 services?") {
		t.Errorf("label = %q, want the question", *label)
	}
}

func TestConfirmValidator(t *testing.T) {
	validate := confirmValidator("purge")
	if err := validate("purge"); err != nil {
		t.Errorf("validate(purge) = %v, want nil", err)
	}
	if err := validate("PURGE"); err == nil {
		t.Error("validate(PURGE) should reject a mismatched word")
	}
}

func TestConfirmDangerWithForce(t *testing.T) {
	withStub(t, stubRunner{err: errors.New("prompt should not run")})

	ok, err := ConfirmDangerWithForce("Remove everything?", "purge", true)
	if err != nil {
		t.Fatalf("ConfirmDangerWithForce returned error: %v", err)
	}
	if !ok {
		t.Error("force should confirm without prompting")
	}
}

func TestConfirmDangerWithForce_Prompts(t *testing.T) {
	withStub(t, stubRunner{err: promptui.ErrInterrupt})

	if _, err := ConfirmDangerWithForce("Remove everything?", "purge", false); !errors.Is(err, ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}
