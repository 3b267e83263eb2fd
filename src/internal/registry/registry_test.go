package registry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/shell/shelltest"
)

const (
	brew = "/opt/homebrew/bin/brew"
	opt  = "/opt/homebrew/opt"
)

func aliasJSON(version string) string {
	return fmt.Sprintf(`[{"name":"php","full_name":"php","aliases":["php@%s"],"versions":{"stable":"%s.1"}}]`, version, version)
}

// newFake scripts brew info and installs a php binary for every formula
func newFake(aliasVersion string, formulas ...string) *shelltest.Fake {
	fake := shelltest.New()
	fake.AddFile(opt)
	fake.Set(brew+" info php --json", shelltest.Response{Stdout: aliasJSON(aliasVersion)})
	for _, formula := range formulas {
		fake.AddFile(opt + "/" + formula + "/bin/php")
	}
	return fake
}

func newRegistry(fake *shelltest.Fake, opts Options) *Registry {
	return New(fake, homebrew.NewClient(fake, brew), opt, opts)
}

func defaultOptions() Options {
	return Options{ValetMajor: 4, CheckBinaries: true}
}

func TestExtractVersions(t *testing.T) {
	supported := runtime.SupportedVersions(4)

	tests := []struct {
		name            string
		entries         []string
		checkBinary     func(string) bool
		wantVersions    []string
		wantUnsupported []string
	}{
		{
			name:         "keeps only php@ entries",
			entries:      []string{"composer", "php@8.1", "something-php@8.0", "php", "php@8.2"},
			wantVersions: []string{"8.1", "8.2"},
		},
		{
			name:         "duplicates keep first position",
			entries:      []string{"php@8.2", "php@8.1", "php@8.2"},
			wantVersions: []string{"8.2", "8.1"},
		},
		{
			name:            "unsupported versions are reported separately",
			entries:         []string{"php@5.6", "php@8.1", "php@7.0"},
			wantVersions:    []string{"8.1"},
			wantUnsupported: []string{"5.6", "7.0"},
		},
		{
			name:         "missing binary is excluded",
			entries:      []string{"php@8.0", "php@8.1"},
			checkBinary:  func(v string) bool { return v != "8.0" },
			wantVersions: []string{"8.1"},
		},
		{
			name:         "no entries",
			entries:      nil,
			wantVersions: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			versions, unsupported := ExtractVersions(tt.entries, supported, tt.checkBinary)
			if !reflect.DeepEqual(versions, tt.wantVersions) {
				t.Errorf("versions = %v, want %v", versions, tt.wantVersions)
			}
			if !reflect.DeepEqual(unsupported, tt.wantUnsupported) {
				t.Errorf("unsupported = %v, want %v", unsupported, tt.wantUnsupported)
			}
		})
	}
}

func TestDetect_AliasAlreadyPresentIsNotDuplicated(t *testing.T) {
	fake := newFake("8.2", "php@8.1", "php@8.2", "php")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1", "8.2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}

	inst, _ := r.Installation("8.2")
	if inst.IsAlias || inst.Formula != "php@8.2" {
		t.Errorf("8.2 should keep its versioned formula, got %+v", inst)
	}
}

func TestDetect_AliasAppendedAfterFilteredList(t *testing.T) {
	fake := newFake("8.3", "php@8.1", "php")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1", "8.3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}

	inst, ok := r.Installation("8.3")
	if !ok {
		t.Fatal("alias installation missing")
	}
	want := runtime.Installation{
		Version:    "8.3",
		Formula:    "php",
		Path:       opt + "/php",
		Binary:     opt + "/php/bin/php",
		Valid:      true,
		Executable: true,
		IsAlias:    true,
	}
	if inst != want {
		t.Errorf("Installation(8.3) = %+v, want %+v", inst, want)
	}
}

func TestDetect_AliasWithoutBinaryIsSkipped(t *testing.T) {
	fake := newFake("8.3", "php@8.1")
	fake.AddFile(opt + "/php")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
}

func TestDetect_MissingBinaryExcluded(t *testing.T) {
	fake := newFake("8.3", "php@8.1")
	fake.AddFile(opt + "/php@8.0/include")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
}

func TestDetect_WithoutBinaryCheck(t *testing.T) {
	fake := newFake("8.3", "php@8.1")
	fake.AddFile(opt + "/php@8.0/include")
	r := newRegistry(fake, Options{ValetMajor: 4})

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.0", "8.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}

	inst, _ := r.Installation("8.0")
	if inst.Valid {
		t.Errorf("8.0 has no binary, Valid should be false: %+v", inst)
	}
}

func TestDetect_UnsupportedVersionsRecorded(t *testing.T) {
	fake := newFake("8.3", "php@5.6", "php@7.4")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"7.4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
	if want := []string{"5.6"}; !reflect.DeepEqual(r.Unsupported(), want) {
		t.Errorf("Unsupported() = %v, want %v", r.Unsupported(), want)
	}

	// The same install is supported on an older Valet line
	r2 := newRegistry(fake, Options{ValetMajor: 2, CheckBinaries: true})
	got, err = r2.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"5.6", "7.4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() with Valet 2 = %v, want %v", got, want)
	}
}

func TestDetect_UnsupportedAliasNotAppended(t *testing.T) {
	fake := newFake("8.4", "php@8.2", "php@8.4", "php")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
	if want := []string{"8.4"}; !reflect.DeepEqual(r.Unsupported(), want) {
		t.Errorf("Unsupported() = %v, want %v", r.Unsupported(), want)
	}
	if _, ok := r.Installation("8.4"); ok {
		t.Error("8.4 should not be switchable with Valet 4")
	}
}

func TestDetect_EmptyOrMissingOptDir(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		fake := newFake("8.3")
		got, err := newRegistry(fake, defaultOptions()).Detect(context.Background())
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Detect() = %v, want empty", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		fake := shelltest.New()
		got, err := newRegistry(fake, defaultOptions()).Detect(context.Background())
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Detect() = %v, want empty", got)
		}
	})
}

func TestDetect_BrewFailureKeepsPreviousState(t *testing.T) {
	fake := newFake("8.3", "php@8.1", "php@8.2")
	r := newRegistry(fake, defaultOptions())

	if _, err := r.Detect(context.Background()); err != nil {
		t.Fatalf("first Detect() error = %v", err)
	}

	// Drop the cached alias so the next pass has to ask brew again
	r.alias.Store(nil)
	fake.Set(brew+" info php --json", shelltest.Response{ExitCode: 1, Stderr: "Error: brew is broken"})
	fake.AddFile(opt + "/php@7.4/bin/php")

	_, err := r.Detect(context.Background())
	var shellErr *shell.ShellError
	if !errors.As(err, &shellErr) {
		t.Fatalf("Detect() error = %v, want *shell.ShellError", err)
	}
	if shellErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", shellErr.ExitCode)
	}
	if want := []string{"8.1", "8.2"}; !reflect.DeepEqual(r.Versions(), want) {
		t.Errorf("Versions() after failure = %v, want %v", r.Versions(), want)
	}
}

func TestDetect_AliasIsCachedUntilRefreshed(t *testing.T) {
	fake := newFake("8.3", "php@8.1", "php")
	r := newRegistry(fake, defaultOptions())
	ctx := context.Background()

	if _, err := r.Detect(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Detect(ctx); err != nil {
		t.Fatal(err)
	}

	infoCalls := 0
	for _, call := range fake.Calls() {
		if call == brew+" info php --json" {
			infoCalls++
		}
	}
	if infoCalls != 1 {
		t.Errorf("brew info called %d times, want 1", infoCalls)
	}

	fake.Set(brew+" info php --json", shelltest.Response{Stdout: aliasJSON("8.2")})
	if _, err := r.RefreshAlias(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := r.Detect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"8.1", "8.2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() after refresh = %v, want %v", got, want)
	}
	if r.Alias().Version != "8.2" {
		t.Errorf("Alias().Version = %q, want 8.2", r.Alias().Version)
	}
}

// refreshingResolver counts which path the registry used
type refreshingResolver struct {
	version   string
	lookups   int
	refreshes int
}

func (r *refreshingResolver) AliasInfo(ctx context.Context) (*homebrew.AliasInfo, error) {
	r.lookups++
	return &homebrew.AliasInfo{Version: r.version, Formula: "php"}, nil
}

func (r *refreshingResolver) Refresh(ctx context.Context) (*homebrew.AliasInfo, error) {
	r.refreshes++
	return &homebrew.AliasInfo{Version: r.version, Formula: "php"}, nil
}

func TestRefreshAlias_UsesRefresher(t *testing.T) {
	fake := newFake("8.3", "php@8.1", "php")
	resolver := &refreshingResolver{version: "8.3"}
	r := New(fake, resolver, opt, defaultOptions())
	ctx := context.Background()

	if _, err := r.Detect(ctx); err != nil {
		t.Fatal(err)
	}
	resolver.version = "8.2"
	if _, err := r.RefreshAlias(ctx); err != nil {
		t.Fatal(err)
	}

	if resolver.lookups != 1 || resolver.refreshes != 1 {
		t.Errorf("lookups = %d, refreshes = %d, want 1 and 1", resolver.lookups, resolver.refreshes)
	}
	if r.Alias().Version != "8.2" {
		t.Errorf("Alias().Version = %q, want 8.2", r.Alias().Version)
	}
}

type recordingHelpers struct {
	generated []string
	err       error
}

func (h *recordingHelpers) GenerateAll(installations []runtime.Installation) error {
	for _, inst := range installations {
		h.generated = append(h.generated, inst.Version)
	}
	return h.err
}

func TestDetect_GeneratesHelpers(t *testing.T) {
	fake := newFake("8.3", "php@8.1", "php")
	helpers := &recordingHelpers{}
	r := newRegistry(fake, Options{ValetMajor: 4, CheckBinaries: true, GenerateHelpers: true, Helpers: helpers})

	if _, err := r.Detect(context.Background()); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1", "8.3"}; !reflect.DeepEqual(helpers.generated, want) {
		t.Errorf("helpers generated for %v, want %v", helpers.generated, want)
	}
}

func TestDetect_HelperFailureIsNotFatal(t *testing.T) {
	fake := newFake("8.3", "php@8.1")
	helpers := &recordingHelpers{err: errors.New("read-only file system")}
	r := newRegistry(fake, Options{ValetMajor: 4, CheckBinaries: true, GenerateHelpers: true, Helpers: helpers})

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if want := []string{"8.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
}

func TestDetect_ResultIsACopy(t *testing.T) {
	fake := newFake("8.3", "php@8.1")
	r := newRegistry(fake, defaultOptions())

	got, err := r.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got[0] = "mutated"

	if r.Versions()[0] != "8.1" {
		t.Errorf("registry state changed through returned slice: %v", r.Versions())
	}
}

func TestInstallations_DetectionOrder(t *testing.T) {
	fake := newFake("8.3", "php@8.2", "php@7.4", "php")
	r := newRegistry(fake, defaultOptions())
	if _, err := r.Detect(context.Background()); err != nil {
		t.Fatal(err)
	}

	var versions []string
	for _, inst := range r.Installations() {
		versions = append(versions, inst.Version)
	}
	if want := []string{"7.4", "8.2", "8.3"}; !reflect.DeepEqual(versions, want) {
		t.Errorf("Installations() versions = %v, want %v", versions, want)
	}
	if inst, _ := r.Installation("8.3"); inst.Formula != "php" {
		t.Errorf("Installation(8.3).Formula = %q, want php", inst.Formula)
	}
}

func TestValidVersions(t *testing.T) {
	fake := newFake("8.3", "php@7.4", "php@8.0", "php@8.1", "php@8.2", "php")
	r := newRegistry(fake, defaultOptions())
	if _, err := r.Detect(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		constraint string
		want       []string
	}{
		{constraint: "^8.0", want: []string{"8.0", "8.1", "8.2", "8.3"}},
		{constraint: "~7.4 || ^8.2", want: []string{"7.4", "8.2", "8.3"}},
		{constraint: "~8.0", want: []string{"8.0", "8.1", "8.2", "8.3"}},
		{constraint: "~8.1.0", want: []string{"8.1"}},
		{constraint: "^7.4|^8.3", want: []string{"7.4", "8.3"}},
		{constraint: ">=8.1 <8.3", want: []string{"8.1", "8.2"}},
		{constraint: "^5.6", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			got, err := r.ValidVersions(tt.constraint)
			if err != nil {
				t.Fatalf("ValidVersions() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidVersions(%q) = %v, want %v", tt.constraint, got, tt.want)
			}
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	for _, constraint := range []string{"", " | ", "not a constraint"} {
		if _, err := ParseConstraint(constraint); err == nil {
			t.Errorf("ParseConstraint(%q) expected error", constraint)
		}
	}
}
