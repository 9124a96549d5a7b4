package application

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openkraft/inspections/internal/domain"
)

// FingerprintInput lists everything that can change a task's result.
type FingerprintInput struct {
	Root           string
	SourceFiles    []string
	Classpath      []string
	Severity       domain.SeveritySource
	Options        domain.RunOptions
	Reports        []domain.ReportKind
	EngineIdentity []string
}

// Fingerprint hashes the inputs of a run. Paths are hashed relative to
// Root so that relocating the project keeps the key stable.
func Fingerprint(in FingerprintInput) (string, error) {
	h := sha256.New()
	rel := func(p string) string { return relativeTo(in.Root, p) }

	fmt.Fprintf(h, "engine %q\n", in.EngineIdentity)
	fmt.Fprintf(h, "options %s %s %t %t %t\n",
		in.Options.MaxErrors, in.Options.MaxWarnings,
		in.Options.ShowViolations, in.Options.IgnoreFailures, in.Options.TolerateReportFailures)
	fmt.Fprintf(h, "reports %q\n", in.Reports)

	fmt.Fprintf(h, "severity %s\n", rel(in.Severity.Path))
	if err := hashFile(h, in.Severity.Path); err != nil {
		return "", fmt.Errorf("hashing severity config: %w", err)
	}
	keys := make([]string, 0, len(in.Severity.Properties))
	for k := range in.Severity.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "property %q=%q\n", k, in.Severity.Properties[k])
	}

	for _, f := range in.SourceFiles {
		fmt.Fprintf(h, "source %s\n", rel(f))
		if err := hashFile(h, f); err != nil {
			return "", fmt.Errorf("hashing source %s: %w", f, err)
		}
	}

	for _, entry := range in.Classpath {
		fmt.Fprintf(h, "classpath %s\n", rel(entry))
		if err := hashTree(h, entry); err != nil {
			return "", fmt.Errorf("hashing classpath entry %s: %w", entry, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(h hash.Hash, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fh := sha256.New()
	if _, err := io.Copy(fh, f); err != nil {
		return err
	}
	fmt.Fprintf(h, "%x\n", fh.Sum(nil))
	return nil
}

// hashTree hashes a classpath entry. Missing entries hash as absent rather
// than failing, since build outputs may legitimately not exist yet.
func hashTree(h hash.Hash, root string) error {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		io.WriteString(h, "absent\n")
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return hashFile(h, root)
	}
	// WalkDir visits entries in lexical order.
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fmt.Fprintf(h, "entry %s\n", relativeTo(root, path))
		return hashFile(h, path)
	})
}

func relativeTo(root, p string) string {
	if root == "" {
		return filepath.ToSlash(p)
	}
	r, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(r)
}

// enabledKinds lists the enabled report kinds as a stable string for logs.
func enabledKinds(d domain.ReportDestinations) string {
	kinds := d.Enabled()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
