// MIT License
//
// # Copyright (c) 2017 Olivier Poitrey
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Based on https://github.com/rs/zerolog/blob/master/console.go.
package prettylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold     = 1
	colorDarkGray = 90
)

// Writer reformats slog's JSON lines into a single colorized line per
// record: a task@turn token, the well-known fields, and everything else as
// sorted key=value pairs. Unlike the console writer this started from, it
// carries no concept of a traceback field or base64-encoded payloads —
// nothing in this runtime's log output ever produces either, so there is
// nothing here to special-case them for.
type Writer struct {
	out     io.Writer
	noColor bool
}

// NewWriter creates and initializes a new Writer.
func NewWriter(out io.Writer) *Writer {
	noColor := (os.Getenv("NO_COLOR") != "") || os.Getenv("TERM") == "dumb" ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
	noColor = noColor && !(os.Getenv("FORCE_COLOR") != "")
	return &Writer{out: out, noColor: noColor}
}

var writePool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// Write decodes one JSON log line from p and writes its colorized,
// single-line rendering to the underlying writer.
func (w *Writer) Write(p []byte) (n int, err error) {
	buf := writePool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		writePool.Put(buf)
	}()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		w.out.Write(p)
		return 0, fmt.Errorf("prettylog: cannot decode event: %w", err)
	}

	w.writeTaskTurn(buf, evt)
	for _, key := range []string{slog.TimeKey, slog.LevelKey, slog.SourceKey, slog.MessageKey} {
		w.writePart(buf, evt, key)
	}
	w.writeFields(evt, buf)
	buf.WriteByte('\n')

	w.out.Write(buf.Bytes())
	return len(p), nil
}

func jsonMarshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if len(b) > 0 {
		return b[:len(b)-1], nil // Encode appends a trailing newline
	}
	return b, nil
}

// needsQuote returns true when the string s should be quoted in output.
func needsQuote(s string) bool {
	for i := range s {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == ' ' || s[i] == '\\' || s[i] == '"' {
			return true
		}
	}
	return false
}

const errorKey = "err"

// writeFields appends formatted key-value pairs to buf.
func (w *Writer) writeFields(evt map[string]interface{}, buf *bytes.Buffer) {
	fields := make([]string, 0, len(evt))
	for field := range evt {
		switch field {
		case "turn", "task", slog.LevelKey, slog.TimeKey, slog.MessageKey, slog.SourceKey:
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	// Move the "err" field to the front
	ei := sort.Search(len(fields), func(i int) bool { return fields[i] >= errorKey })
	if ei < len(fields) && fields[ei] == errorKey {
		fields = append(slices.Insert(fields[:ei], 0, errorKey), fields[ei+1:]...)
	}

	for _, field := range fields {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(w.fieldName(field))

		switch value := evt[field].(type) {
		case string:
			if needsQuote(value) {
				buf.WriteString(w.fieldValue(field, strconv.Quote(value)))
			} else {
				buf.WriteString(w.fieldValue(field, value))
			}
		case json.Number:
			buf.WriteString(w.fieldValue(field, value))
		default:
			b, err := jsonMarshal(value)
			if err != nil {
				fmt.Fprintf(buf, w.colorize("[error: %v]", colorRed), err)
			} else {
				buf.WriteString(w.fieldValue(field, b))
			}
		}
	}
}

var pad = "             " // hope you don't need more :)

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return pad[:n-len(s)] + s
}

// taskColors rotates a handful of ANSI colors across task ids, so that in
// an interleaved trace of several coroutines each one's lines are visually
// distinguishable by eye without having to read the task number itself.
var taskColors = []int{colorCyan, colorYellow, colorMagenta, colorGreen, colorBlue, colorRed}

// writeTaskTurn renders the ring's two addressing fields as a single
// token, "<task>@<turn>", colored by task id, rather than as two
// independently padded columns. There is exactly one dimension of
// concurrency here (which coroutine is running) plus a global switch
// counter, not a two-level machine/goroutine hierarchy, so one combined
// token is enough to scan a trace by eye.
func (w *Writer) writeTaskTurn(buf *bytes.Buffer, evt map[string]interface{}) {
	task, hasTask := evt["task"]
	turn, hasTurn := evt["turn"]
	if !hasTask && !hasTurn {
		return
	}

	var token string
	switch {
	case hasTask && hasTurn:
		token = fmt.Sprintf("%v@%v", task, turn)
	case hasTask:
		token = fmt.Sprintf("%v@-", task)
	default:
		token = fmt.Sprintf("-@%v", turn)
	}
	token = padLeft(token, 7)

	color := taskColors[0]
	if hasTask {
		if n, err := strconv.Atoi(fmt.Sprint(task)); err == nil {
			color = taskColors[n%len(taskColors)]
		}
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
	buf.WriteString(w.colorize(token, color))
}

// writePart appends a formatted part to buf.
func (w *Writer) writePart(buf *bytes.Buffer, evt map[string]interface{}, p string) {
	var s string
	switch p {
	case slog.LevelKey:
		s = w.level(evt[p])
	case slog.TimeKey:
		s = w.timestamp(evt[p])
	case slog.MessageKey:
		s = w.message(evt[slog.LevelKey], evt[p])
	case slog.SourceKey:
		s = w.caller(evt[p])
	default:
		s = w.fieldValue(p, evt[p])
	}

	if len(s) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte(' ') // Write space only if not the first part
		}
		buf.WriteString(s)
	}
}

// colorize returns the string s wrapped in ANSI code c, unless w.noColor is
// set or c is empty.
func (w *Writer) colorize(s interface{}, c ...int) string {
	if len(c) == 0 || (len(c) == 1 && c[0] == 0) || w.noColor {
		return fmt.Sprintf("%s", s)
	}
	for _, c := range c {
		s = fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
	}
	return s.(string)
}

const timeFormat = "15:04:05.000"

func (w *Writer) timestamp(i interface{}) string {
	if s, ok := i.(string); ok {
		if ts, err := time.ParseInLocation(time.RFC3339Nano, s, time.UTC); err == nil {
			i = ts.In(time.UTC).Format(timeFormat)
		}
	}
	return w.colorize(i, colorDarkGray)
}

var levelColors = map[slog.Level]int{
	slog.LevelDebug: colorMagenta,
	slog.LevelInfo:  colorGreen,
	slog.LevelWarn:  colorYellow,
	slog.LevelError: colorRed,
}

var formattedLevels = map[slog.Level]string{
	slog.LevelDebug: "DBG",
	slog.LevelInfo:  "INF",
	slog.LevelWarn:  "WRN",
	slog.LevelError: "ERR",
}

func (w *Writer) level(i interface{}) string {
	ll, ok := i.(string)
	if !ok {
		if i == nil {
			return "???"
		}
		return strings.ToUpper(fmt.Sprintf("%s", i))[0:3]
	}
	var level slog.Level
	level.UnmarshalText([]byte(ll))
	fl, ok := formattedLevels[level]
	if !ok {
		return strings.ToUpper(ll)[0:3]
	}
	return w.colorize(fl, levelColors[level])
}

func (w *Writer) caller(i interface{}) string {
	m, ok := i.(map[string]any)
	if !ok {
		return ""
	}

	file, _ := m["file"].(string)
	line, _ := m["line"].(json.Number)

	name := path.Base(file)
	dir := path.Base(path.Dir(file))
	c := fmt.Sprintf("%s/%s:%s", dir, name, line)
	if len(c) == 0 {
		return ""
	}
	return w.colorize(c, colorDarkGray) + w.colorize(" >", colorCyan)
}

func (w *Writer) message(level interface{}, i interface{}) string {
	if i == nil || i == "" {
		return ""
	}
	switch level {
	case slog.LevelInfo, slog.LevelWarn, slog.LevelError:
		return w.colorize(fmt.Sprintf("%s", i), colorBold)
	default:
		return fmt.Sprintf("%s", i)
	}
}

func (w *Writer) fieldName(i interface{}) string {
	return w.colorize(fmt.Sprintf("%s=", i), colorCyan)
}

func (w *Writer) fieldValue(field string, i interface{}) string {
	if field == errorKey {
		return w.colorize(fmt.Sprintf("%s", i), colorBold, colorRed)
	}
	return fmt.Sprintf("%s", i)
}
