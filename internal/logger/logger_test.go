package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestNewParsesLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for raw, want := range cases {
		l := New(Config{Level: raw, Output: "discard"})
		if got := l.log.GetLevel(); got != want {
			t.Errorf("level %q: got %v, want %v", raw, got, want)
		}
	}
}

func TestJSONFieldsAreCarried(t *testing.T) {
	l := New(Config{Level: "info", Format: "json", Output: "discard"})
	var buf bytes.Buffer
	l.log.SetOutput(&buf)

	l.WithComponent("engine").WithField("run_id", "abc").Info("проход")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["component"] != "engine" || line["run_id"] != "abc" || line["msg"] != "проход" {
		t.Fatalf("line = %v", line)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	l := Discard()
	if l.log.IsLevelEnabled(logrus.ErrorLevel) {
		t.Fatal("discard logger should only allow panic level")
	}
}

func TestWithFieldAndHook(t *testing.T) {
	l := New(Config{Level: "info", Output: "discard"})
	hook := new(test.Hook)
	l.AddHook(hook)

	l.WithField("command", "plan").Info("запуск")

	entry := hook.LastEntry()
	if entry == nil || entry.Data["command"] != "plan" || entry.Message != "запуск" {
		t.Fatalf("entry = %+v", entry)
	}
}
