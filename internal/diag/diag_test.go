package diag

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"flachtex/pkg/ferrors"
)

func TestRotatingFile(t *testing.T) {
	dir := t.TempDir()
	w := NewRotatingFile(dir, 30)
	if err := w.WriteLine([]byte("first line that is very long")); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if err := w.WriteLine([]byte("second")); err != nil {
		t.Fatalf("第二次写入失败: %v", err)
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("读取目录失败: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("应存在轮转文件, got %d", len(files))
	}
}

func TestRotatingFileRotateFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewRotatingFile(dir, 10)
	for i := 0; i < 5; i++ {
		if err := w.WriteLine([]byte("xxxxxxxxxxxxxxxxxx")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	hasCurrent, hasRotated := false, false
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), "flachtex-current.txt") {
			hasCurrent = true
		}
		if strings.HasPrefix(e.Name(), "flachtex-") && strings.HasSuffix(e.Name(), ".txt") && !strings.Contains(e.Name(), "current") {
			hasRotated = true
		}
	}
	if !hasCurrent || !hasRotated {
		t.Fatalf("expect both current and rotated files, got current=%v rotated=%v", hasCurrent, hasRotated)
	}
}

func TestClassify(t *testing.T) {
	if CodeCancel != Classify(context.Canceled) {
		t.Fatalf("取消分类错误")
	}
	err := &fs.PathError{Op: "open", Path: "/", Err: errors.New("x")}
	if CodeIO != Classify(err) {
		t.Fatalf("IO 分类错误")
	}
	if CodeCycle != Classify(ferrors.NewImportCycle([]string{"a", "b", "a"})) {
		t.Fatalf("cycle 分类错误")
	}
	if CodeOverlap != Classify(ferrors.NewOverlappingMatches("skip", 0, 2, 1, 3)) {
		t.Fatalf("overlap 分类错误")
	}
	if CodeUnknown != Classify(errors.New("other")) {
		t.Fatalf("未知分类错误")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(CodeCycle) != 2 {
		t.Fatalf("cycle exit code")
	}
	if ExitCode(CodeMalformed) != 3 {
		t.Fatalf("malformed exit code")
	}
	if ExitCode(CodeIO) != 1 {
		t.Fatalf("io exit code")
	}
}

func TestLogger(t *testing.T) {
	l := NewLogger("corr", "debug")
	l.sink = nil
	timer := l.Start("comp", "msg")
	timer.Finish("ok", 1)
	timer = l.StartWith("comp", "msg", "main.tex", map[string]string{"k": "v"})
	timer.Finish("ok", 1)
	l.Error("comp", "code", "msg")
	l.ErrorWith("comp", "code", "msg", "main.tex")
	l.Warn("comp", "msg", map[string]string{"depth": "16"})
	var tnil *Timer
	tnil.Finish("x", 0)
}

func TestNowUTC(t *testing.T) {
	if NowUTC() == "" {
		t.Fatalf("应返回时间字符串")
	}
}

func TestTerminalNonTTYFlow(t *testing.T) {
	var sb strings.Builder
	term := NewTerminal(&sb, true)
	if term.isTTY {
		t.Fatalf("expect non-tty")
	}
	term.RunStart("main.tex")
	term.SourceStart("chapters/intro.tex")
	term.SourceFinish()
	term.RunFinish(true, 2)

	out := sb.String()
	if strings.Contains(out, "\r") {
		t.Fatalf("non-tty should not contain carriage returns: %q", out)
	}
	if !strings.Contains(out, "[run] root=main.tex") {
		t.Fatalf("missing run line: %q", out)
	}
	if !strings.Contains(out, "[expand] intro.tex") {
		t.Fatalf("missing expand line: %q", out)
	}
}

func TestHelpers(t *testing.T) {
	if shortenBase("/x/y/verylongfilenamefortruncationabcdefghijk.tex", 10) == "" {
		t.Fatalf("shortenBase should produce non-empty")
	}
	if formatDur(0) != "0ms" {
		t.Fatalf("formatDur 0ms failed")
	}
	if formatDur(1500*time.Millisecond) != "1.5s" {
		t.Fatalf("formatDur 1.5s failed: %s", formatDur(1500*time.Millisecond))
	}
	SetTerminal(nil)
	if GetTerminal() != nil {
		t.Fatalf("expected nil terminal")
	}
	t1 := NewTerminal(os.Stderr, false)
	SetTerminal(t1)
	if GetTerminal() == nil {
		t.Fatalf("expected non-nil terminal")
	}
}

func TestTerminalNilReceiverNoop(t *testing.T) {
	var tn *Terminal
	tn.RunStart("x")
	tn.SourceStart("a")
	tn.SourceFinish()
	tn.RunFinish(true, 0)
}

func TestShortenBaseEdge(t *testing.T) {
	_ = shortenBase("", 10)
	if shortenBase("x", 0) != "" {
		t.Fatalf("shortenBase max<=0 should be empty")
	}
}
