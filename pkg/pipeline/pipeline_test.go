package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pomgrid/pomgrid/pkg/cache"
	"github.com/pomgrid/pomgrid/pkg/errors"
)

const appPOM = `<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0.0</version>
  <properties>
    <io.version>2.20.0</io.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>commons-io</groupId>
      <artifactId>commons-io</artifactId>
      <version>${io.version}</version>
    </dependency>
  </dependencies>
</project>`

const libPOM = `<project>
  <groupId>com.example</groupId>
  <artifactId>lib</artifactId>
  <version>1.0.0</version>
  <dependencies>
    <dependency>
      <groupId>commons-io</groupId>
      <artifactId>commons-io</artifactId>
      <version>2.20.0</version>
    </dependency>
  </dependencies>
</project>`

// writePOM writes content at rel under dir, creating parents.
func writePOM(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// workspace writes two parseable POMs, one broken POM, and one POM in
// build output that discovery must skip.
func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePOM(t, root, "app/pom.xml", appPOM)
	writePOM(t, root, "lib/pom.xml", libPOM)
	writePOM(t, root, "broken/pom.xml", "<project><unclosed></project>")
	writePOM(t, root, "app/target/pom.xml", appPOM)
	return root
}

func TestExecuteEndToEnd(t *testing.T) {
	root := workspace(t)
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), Options{Root: root, Validate: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.Discovered != 3 {
		t.Errorf("Discovered = %d, want 3 (target/ excluded)", result.Stats.Discovered)
	}
	if result.Stats.Parsed != 2 {
		t.Errorf("Parsed = %d, want 2", result.Stats.Parsed)
	}
	if result.Stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Stats.Failed)
	}
	if len(result.Failures) != 1 || filepath.Base(filepath.Dir(result.Failures[0].Path)) != "broken" {
		t.Errorf("Failures = %+v, want the broken POM", result.Failures)
	}

	// Both projects declare commons-io 2.20.0 (app via a property), so
	// they share one version cell.
	group := result.Document.Group("commons-io")
	if group == nil {
		t.Fatal("group commons-io missing from document")
	}
	if len(group.Artifacts) != 1 || group.Artifacts[0].ArtifactID != "commons-io" {
		t.Fatalf("Artifacts = %+v, want commons-io", group.Artifacts)
	}
	versions := group.Artifacts[0].Versions
	if len(versions) != 1 || versions[0].Version != "2.20.0" {
		t.Fatalf("Versions = %+v, want only 2.20.0", versions)
	}
	if want := []string{"app", "lib"}; len(versions[0].Projects) != 2 ||
		versions[0].Projects[0] != want[0] || versions[0].Projects[1] != want[1] {
		t.Errorf("Projects = %v, want %v", versions[0].Projects, want)
	}

	if len(result.Issues) != 0 {
		t.Errorf("Issues = %v, want none for valid POMs", result.Issues)
	}
}

func TestExecuteSkipsValidationByDefault(t *testing.T) {
	root := t.TempDir()
	// Missing version and no parent: validation would flag this.
	writePOM(t, root, "pom.xml", `<project>
  <groupId>com.example</groupId>
  <artifactId>bare</artifactId>
  <dependencies>
    <dependency>
      <groupId>commons-io</groupId>
      <artifactId>commons-io</artifactId>
    </dependency>
  </dependencies>
</project>`)
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Issues) != 0 {
		t.Errorf("Issues = %v, want none when Validate is false", result.Issues)
	}

	result, err = r.Execute(context.Background(), Options{Root: root, Validate: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Issues) == 0 {
		t.Error("want validation issues when Validate is true")
	}
}

func TestExecuteNoFilesFound(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), Options{Root: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeNoInput) {
		t.Errorf("Execute error = %v, want %v", errors.GetCode(err), errors.ErrCodeNoInput)
	}
}

func TestExecuteAllFilesFail(t *testing.T) {
	root := t.TempDir()
	writePOM(t, root, "pom.xml", "not xml at all")
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), Options{Root: root})
	if !errors.Is(err, errors.ErrCodeNoInput) {
		t.Errorf("Execute error = %v, want %v", errors.GetCode(err), errors.ErrCodeNoInput)
	}
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	root := workspace(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	first, err := r.Execute(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.Hits != 0 {
		t.Errorf("first run Hits = %d, want 0", first.CacheInfo.Hits)
	}
	if first.CacheInfo.Misses != 2 {
		t.Errorf("first run Misses = %d, want 2", first.CacheInfo.Misses)
	}

	second, err := r.Execute(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.Hits != 2 {
		t.Errorf("second run Hits = %d, want 2", second.CacheInfo.Hits)
	}
	for _, p := range second.Parsed {
		if !p.CacheHit {
			t.Errorf("%s not served from cache on second run", p.Path)
		}
	}

	// Refresh bypasses the cache entirely.
	third, err := r.Execute(context.Background(), Options{Root: root, Refresh: true})
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.Hits != 0 {
		t.Errorf("refresh run Hits = %d, want 0", third.CacheInfo.Hits)
	}

	// Cached and fresh runs must yield identical documents.
	if len(first.Document.Groups) != len(second.Document.Groups) {
		t.Errorf("document groups differ between runs: %d vs %d",
			len(first.Document.Groups), len(second.Document.Groups))
	}
}

func TestExecuteInvalidPattern(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), Options{Root: t.TempDir(), Pattern: "mod-[abc/pom.xml"})
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("Execute error = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPattern)
	}
}

func TestExecuteCanceledContext(t *testing.T) {
	root := workspace(t)
	r := NewRunner(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, Options{Root: root})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Root != DefaultRoot {
		t.Errorf("Root = %q, want %q", opts.Root, DefaultRoot)
	}
	if opts.Pattern != DefaultPattern {
		t.Errorf("Pattern = %q, want %q", opts.Pattern, DefaultPattern)
	}
	if len(opts.Excludes) != len(DefaultExcludes) {
		t.Errorf("Excludes = %v, want %v", opts.Excludes, DefaultExcludes)
	}
	if opts.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", opts.Workers, runtime.NumCPU())
	}
	if opts.CacheTTL != cache.DefaultTTL {
		t.Errorf("CacheTTL = %v, want %v", opts.CacheTTL, cache.DefaultTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}
}

func TestOptionsEmptyExcludesDisableFiltering(t *testing.T) {
	opts := Options{Excludes: []string{}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Excludes) != 0 {
		t.Errorf("Excludes = %v, want empty slice preserved", opts.Excludes)
	}
}

func TestOptionsInvalidExclude(t *testing.T) {
	opts := Options{Excludes: []string{"mod-[abc/**"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("ValidateAndSetDefaults error = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPattern)
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Workers: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	opts.Workers = -1 // a fresh validate would re-default this
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
	if opts.Workers != -1 {
		t.Error("second call should not touch fields again")
	}
}

func TestRunnerNilDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Error("NewRunner should default all collaborators")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
