package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// checkoutSource is a small step-library package exercising every kind of
// constructor stepsgen understands.
const checkoutSource = `package checkout

import "errors"

type Base struct{ actor string }

type CatalogSteps struct{ Base }

func NewCatalogSteps() *CatalogSteps { return &CatalogSteps{} }

type Inventory struct{ Base }

func NewInventory() (*Inventory, error) { return nil, errors.New("no stock") }

type PaymentGateway interface{ Pay(int) error }

func NewPaymentGateway() (PaymentGateway, error) { return nil, nil }

type Clock interface{ Now() int }

func NewClock() Clock { return nil }

type Untouched struct{}

type Checkout struct {
	Catalog   *CatalogSteps  ` + "`steps:\"shared\"`" + `
	Second    *CatalogSteps  ` + "`steps:\"unique\"`" + `
	Stock     *Inventory     ` + "`steps:\"actor=Stock Keeper\"`" + `
	Payments  PaymentGateway ` + "`steps:\"\"`" + `
	Clock     Clock          ` + "`steps:\"\"`" + `
	Plain     *Untouched     ` + "`steps:\"\"`" + `
	NotMarked *CatalogSteps
}
`

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// readFileString reads a file and returns its contents as string (fatal on error).
func readFileString(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// restoreWriteFileSeams puts the real file operations back when t ends.
func restoreWriteFileSeams(t *testing.T) {
	t.Helper()
	origCreate, origRemove, origChmod, origRename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile = origCreate
		removeFile = origRemove
		chmodFile = origChmod
		renameFile = origRename
	})
}
