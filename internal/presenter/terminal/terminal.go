package terminal

import (
    "fmt"
    "io"
    "strings"
    "sync"
    "unicode"
    "unicode/utf8"

    "github.com/fatih/color"

    "github.com/xprabhudayal/genai/internal/models"
)

// Presenter writes results and notifications to a terminal.
type Presenter struct {
    mu  sync.Mutex
    out io.Writer

    title      *color.Color
    processing *color.Color
    levels     map[models.NotificationLevel]*color.Color
}

type Option func(*Presenter)

// WithColor forces color output on or off. By default fatih/color decides
// from the terminal.
func WithColor(enabled bool) Option {
    return func(p *Presenter) {
        for _, c := range p.colors() {
            if enabled {
                c.EnableColor()
            } else {
                c.DisableColor()
            }
        }
    }
}

func New(out io.Writer, opts ...Option) *Presenter {
    p := &Presenter{
        out:        out,
        title:      color.New(color.FgCyan, color.Bold),
        processing: color.New(color.FgMagenta),
        levels: map[models.NotificationLevel]*color.Color{
            models.LevelError:   color.New(color.FgRed, color.Bold),
            models.LevelWarning: color.New(color.FgYellow),
            models.LevelSuccess: color.New(color.FgGreen, color.Bold),
            models.LevelInfo:    color.New(color.FgBlue),
        },
    }
    for _, opt := range opts {
        opt(p)
    }
    return p
}

func (p *Presenter) colors() []*color.Color {
    cs := []*color.Color{p.title, p.processing}
    for _, c := range p.levels {
        cs = append(cs, c)
    }
    return cs
}

func (p *Presenter) SetProcessing(on bool) {
    if !on {
        return
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    p.processing.Fprintln(p.out, "Processing...")
}

func (p *Presenter) RenderResult(result models.Result) {
    p.mu.Lock()
    defer p.mu.Unlock()

    switch r := result.(type) {
    case *models.DocumentResult:
        p.title.Fprintf(p.out, "Document: %s\n", r.Filename)
        p.section("Summary", r.Summary)
        p.section("Simplified Text", r.SimplifiedText)
        p.section("Original Text", r.OriginalText)
    case *models.SimplifiedText:
        p.section("Simplified Text", r.Text)
    case *models.Summary:
        p.section("Summary", r.Text)
    case *models.TermExplanation:
        p.section(Capitalize(r.Term), r.Explanation)
    case models.TermSet:
        p.title.Fprintln(p.out, "Legal terms found:")
        for i, term := range r {
            fmt.Fprintf(p.out, "  %d. %s\n", i+1, Capitalize(term))
        }
    default:
        fmt.Fprintf(p.out, "%v\n", result)
    }
}

func (p *Presenter) RenderNotification(n models.Notification) {
    p.mu.Lock()
    defer p.mu.Unlock()

    c, ok := p.levels[n.Level]
    if !ok {
        c = p.levels[models.LevelInfo]
    }
    c.Fprintf(p.out, "[%s] ", strings.ToUpper(string(n.Level)))
    fmt.Fprintln(p.out, n.Message)
}

func (p *Presenter) section(title, body string) {
    p.title.Fprintln(p.out, title)
    fmt.Fprintln(p.out, strings.Repeat("-", utf8.RuneCountInString(title)))
    fmt.Fprintln(p.out, body)
    fmt.Fprintln(p.out)
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
    r, size := utf8.DecodeRuneInString(s)
    if size == 0 {
        return s
    }
    return string(unicode.ToUpper(r)) + s[size:]
}
