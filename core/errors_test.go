package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	if Code(nil) != NOERROR {
		t.Errorf("expected nil error to have code NOERROR")
	}
	if Code(io.EOF) != EINTERNAL {
		t.Errorf("expected foreign error to have code EINTERNAL, is %d", Code(io.EOF))
	}
	err := Error(EMISSING, "font not found: %s", "Dummy.otf")
	if Code(err) != EMISSING {
		t.Errorf("expected code EMISSING, have %d", Code(err))
	}
	if UserMessage(err) != "font not found: Dummy.otf" {
		t.Errorf("unexpected user message: %q", UserMessage(err))
	}
}

func TestWrappedChain(t *testing.T) {
	inner := WrapError(io.ErrUnexpectedEOF, EINVALID, "GPOS table truncated")
	outer := fmt.Errorf("reading font: %w", inner)
	if Code(outer) != EINVALID {
		t.Errorf("expected code to survive wrapping, have %d", Code(outer))
	}
	if !errors.Is(outer, io.ErrUnexpectedEOF) {
		t.Errorf("expected error chain to contain io.ErrUnexpectedEOF")
	}
	if UserMessage(io.EOF) != "internal error" {
		t.Errorf("expected default message for foreign error, have %q", UserMessage(io.EOF))
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, Error(EUNSUPPORTED, "font type 'wOFF'"))
	if buf.String() != "[124] font type 'wOFF'\n" {
		t.Errorf("unexpected report: %q", buf.String())
	}
	buf.Reset()
	ReportError(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected nil error to report nothing")
	}
}
