package main

import (
	"afya-chat/connectivity"
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/repositories"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type translator interface {
	T(key string) string
}

// presenter renders engine events on the terminal.
type presenter struct {
	mu      sync.Mutex
	out     io.Writer
	i18n    translator
	colours bool
}

func newPresenter(out io.Writer, i18n translator, colours bool) *presenter {
	return &presenter{out: out, i18n: i18n, colours: colours}
}

func (p *presenter) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		p.message(evt.Message)
	case event.WelcomeRewritten:
		p.message(evt.Message)
	case event.ReplyPendingChanged:
		if evt.Pending {
			p.println(p.paint(color.FgGray, p.i18n.T("loading")))
		}
	case event.LanguageChanged:
		p.println(p.paint(color.FgCyan, fmt.Sprintf("%s: %s", p.i18n.T("languageToggle"), evt.To)))
	case event.LanguageHint:
		p.println(p.paint(color.FgYellow, p.i18n.T("languageHint")))
	case event.SpeechStarted:
		p.println(p.paint(color.FgMagenta, fmt.Sprintf("%s (%s)", p.i18n.T("listening"), evt.Tag)))
	case event.SpeechResolved:
		p.println(p.paint(color.FgMagenta, fmt.Sprintf("%s: %s  (/send)", p.i18n.T("inputPlaceholder"), evt.Text)))
	case event.SpeechFailed:
		p.println(p.paint(color.FgRed, p.i18n.T("voiceFailed")))
	case event.SpeechUnsupported:
		p.println(p.paint(color.FgRed, p.i18n.T("voiceUnsupported")))
	case event.BannerChanged:
		p.banner(evt)
	}
	return nil
}

func (p *presenter) message(m domain.Message) {
	if m.Sender == domain.SenderUser {
		p.println(p.paint(color.FgBlue, "> "+m.Text))
		return
	}
	p.println(p.paint(color.FgGreen, p.i18n.T("appName")+": ") + m.Text)
}

func (p *presenter) banner(evt event.BannerChanged) {
	b := connectivity.Banner{Mode: connectivity.BannerMode(evt.Mode), Reachable: evt.Reachable}
	key := "onlineMode"
	fg := color.FgGreen
	if !b.Reachable {
		key = "offlineMode"
		fg = color.FgRed
	}
	switch b.Mode {
	case connectivity.BannerExpanded:
		p.println(p.paint(fg, "[ "+p.i18n.T(key)+" ]"))
	case connectivity.BannerCollapsed:
		p.println(p.paint(fg, "[ • ]"))
	}
}

// history renders transcript rows the way the store returns them.
func (p *presenter) history(messages []repositories.TranscriptMessage, cursor *string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"#", "Sender", "At", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(messages, func(m repositories.TranscriptMessage, _ int) []string {
		return []string{
			strconv.Itoa(m.Position),
			string(m.Sender),
			m.At.Local().Format("15:04:05"),
			m.Text,
		}
	}))
	table.Render()

	if cursor != nil {
		_, _ = fmt.Fprintf(p.out, "more: /history %s\n", *cursor)
	}
}

func (p *presenter) info(text string) {
	p.println(p.paint(color.FgGray, text))
}

func (p *presenter) failure(err error) {
	p.println(p.paint(color.FgRed, err.Error()))
}

func (p *presenter) paint(fg color.Color, text string) string {
	if !p.colours {
		return text
	}
	return color.New(fg).Render(text)
}

func (p *presenter) println(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, text)
}
