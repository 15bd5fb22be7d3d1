package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.True(t, IsFileAccessDenied(fileErr))

	unsupported := NewFileError("unsupported game file", "/a/readme.txt", UnsupportedFormat, nil)
	assert.True(t, IsUnsupportedFormat(unsupported))
	assert.True(t, IsUnsupportedFormat(Wrap(unsupported, "inspect")))
	assert.False(t, IsUnsupportedFormat(notFoundErr))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "tools.block_size", InvalidConfig, nil)
	assert.Equal(t, "invalid value: tools.block_size", configErr.Error())
	assert.Equal(t, "tools.block_size", configErr.Param())
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestOperationError(t *testing.T) {
	cause := errors.New("converter exited with status 1")
	opErr := NewOperationError("compress", "/games/rsbe01.iso", OperationFailed, cause)

	assert.Equal(t, "compress failed: /games/rsbe01.iso: converter exited with status 1", opErr.Error())
	assert.Equal(t, "compress", opErr.Operation())
	assert.Equal(t, "/games/rsbe01.iso", opErr.Game())
	assert.True(t, IsOperationFailed(opErr))
	assert.False(t, IsDeleteFailed(opErr))
	assert.False(t, IsCancelled(opErr))
	assert.True(t, Is(opErr, cause))

	noGame := NewOperationError("export save", "", OperationFailed, nil)
	assert.Equal(t, "export save failed", noGame.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Cancelled, KindOf(ErrCancelled))
	assert.Equal(t, Cancelled, KindOf(fmt.Errorf("install: %w", ErrCancelled)))
	assert.Equal(t, Cancelled, KindOf(Wrap(ErrCancelled, "compress")))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))

	del := NewOperationError("delete", "/games/a.iso", DeleteFailed, nil)
	assert.True(t, IsDeleteFailed(Wrap(del, "remove file")))
	assert.True(t, IsOperationFailed(del))

	assert.True(t, IsCancelled(ErrNoSelection))
	assert.Equal(t, InvalidOperation, KindOf(ErrNotAvailable))
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	opErr := NewOperationError("install", "/games/title.wad", OperationFailed, fileErr)

	assert.Equal(t, "install failed: /games/title.wad: file error: /path/to/file: base error", opErr.Error())
	assert.True(t, Is(opErr, baseErr))
	assert.True(t, Is(opErr, fileErr))

	var fe *FileError
	assert.True(t, As(opErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	assert.True(t, IsFileNotFound(opErr))
	assert.Equal(t, OperationFailed, KindOf(opErr))
}
