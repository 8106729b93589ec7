package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"multab/internal/app"
	"multab/internal/domain"
)

const help = `commands:
  test               start a full test (all 100 cells)
  set                start a short set of 10
  <n> <value>        answer question n; '<n> -' clears it
  <value>            answer the next unanswered question
  a <v1> <v2> ...    answer the questions in order from the first
  <v1> <v2> <v3>...  same, when three or more values are given
  check              show which answers are right
  continue           record the set and move on
  table              show the table and summary
  score <a>x<b>      show the score of one cell
  users              list users
  use <name>         switch user
  add <name>         create a user
  rename <name>      rename the current user
  help               show this text
  quit               save and exit`

var errQuit = errors.New("quit")

// Presenter runs an interactive session over a line-oriented reader and
// writer. Input lines and effect results are handled on the goroutine that
// calls Run, which owns the runtime.
type Presenter struct {
	rt  *app.Runtime
	in  io.Reader
	out io.Writer
	r   Renderer
	log logrus.FieldLogger

	lastErr error
}

func NewPresenter(rt *app.Runtime, in io.Reader, out io.Writer, color bool, log logrus.FieldLogger) *Presenter {
	return &Presenter{rt: rt, in: in, out: out, r: Renderer{Color: color}, log: log}
}

// Run loads the current user and processes commands until quit, end of input
// or ctx is done. Pending saves are flushed before it returns.
func (p *Presenter) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.rt.Start()
	if err := p.rt.Settle(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, p.rt.App().Title())
	fmt.Fprintln(p.out, "type 'help' for commands")
	p.prompt()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(p.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	var runErr error
loop:
	for {
		select {
		case line := <-lines:
			if err := p.handle(ctx, line); err != nil {
				if !errors.Is(err, errQuit) {
					runErr = err
				}
				break loop
			}
			p.prompt()
		case ev := <-p.rt.Results():
			p.rt.Apply(ev)
			p.reportErr()
		case err := <-readErr:
			runErr = err
			break loop
		case <-ctx.Done():
			break loop
		}
	}

	closeCtx := context.WithoutCancel(ctx)
	if err := p.rt.Close(closeCtx); err != nil && runErr == nil {
		runErr = err
	}
	p.reportErr()
	return runErr
}

func (p *Presenter) prompt() {
	fmt.Fprint(p.out, "> ")
}

// reportErr prints the error slot when it changes.
func (p *Presenter) reportErr() {
	err := p.rt.App().Err()
	if err == nil || err == p.lastErr {
		p.lastErr = err
		return
	}
	p.lastErr = err
	fmt.Fprintf(p.out, "\nerror: %v\n", err)
}

func (p *Presenter) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, arg := strings.ToLower(fields[0]), strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	p.log.WithField("command", cmd).Debug("input")

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(p.out, help)
	case "test", "start":
		err = p.send(app.StartTest{})
	case "set":
		err = p.send(app.StartSet{})
	case "check":
		err = p.send(app.CheckAnswers{})
	case "continue", "next":
		if p.rt.App().Round().Phase != app.InProgress {
			err = domain.ErrNoRound
			break
		}
		err = p.send(app.ContinueRound{})
	case "a":
		err = p.answerInOrder(fields[1:])
	case "table":
		p.table()
	case "score":
		err = p.score(arg)
	case "users":
		if dir, ok := p.rt.App().Directory(); ok {
			p.r.Users(p.out, dir)
		}
	case "use":
		err = p.changeUser(ctx, app.SelectUser{Name: arg})
	case "add":
		err = p.changeUser(ctx, app.CreateUser{Name: arg})
	case "rename":
		err = p.changeUser(ctx, app.RenameCurrent{Name: arg})
	default:
		err = p.answers(fields)
	}
	if err != nil {
		fmt.Fprintf(p.out, "%v\n", err)
	}
	return nil
}

// send applies an action and shows the round afterwards.
func (p *Presenter) send(ev app.Event) error {
	if err := p.rt.Send(ev); err != nil {
		return err
	}
	p.showRound()
	return nil
}

// changeUser waits for the user operation to finish before accepting more input.
func (p *Presenter) changeUser(ctx context.Context, ev app.Event) error {
	if err := p.rt.Send(ev); err != nil {
		return err
	}
	if err := p.rt.Settle(ctx); err != nil {
		return err
	}
	p.reportErr()
	fmt.Fprintln(p.out, p.rt.App().Title())
	return nil
}

func (p *Presenter) showRound() {
	view := p.rt.App().Round()
	if view.Phase != app.InProgress {
		fmt.Fprintln(p.out, "no round in progress")
		if rec, ok := p.rt.App().User(); ok {
			p.r.Summary(p.out, &rec)
		}
		return
	}
	p.r.Batch(p.out, view)
}

func (p *Presenter) table() {
	rec, ok := p.rt.App().User()
	if !ok {
		fmt.Fprintln(p.out, domain.ErrNoUser)
		return
	}
	p.r.Grid(p.out, &rec, p.rt.App().Round())
	p.r.Summary(p.out, &rec)
}

func (p *Presenter) score(arg string) error {
	rec, ok := p.rt.App().User()
	if !ok {
		return domain.ErrNoUser
	}
	c, err := ParseCell(arg)
	if err != nil {
		return err
	}
	if p.rt.App().Round().Overlay.Hidden(c) {
		return fmt.Errorf("%s is hidden until the round ends", c)
	}
	p.r.Cell(p.out, &rec, c)
	return nil
}

func (p *Presenter) answers(fields []string) error {
	view := p.rt.App().Round()
	if view.Phase != app.InProgress {
		return fmt.Errorf("unknown command %q, type 'help'", fields[0])
	}

	switch len(fields) {
	case 1:
		v, err := parseValue(fields[0])
		if err != nil {
			return err
		}
		i := nextUnanswered(view)
		if i < 0 {
			return fmt.Errorf("every question has an answer; use '<n> <value>' to change one")
		}
		return p.send(app.EnterAnswer{Index: i, Value: v})
	case 2:
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("unknown command %q, type 'help'", fields[0])
		}
		v, err := parseValue(fields[1])
		if err != nil {
			return err
		}
		return p.send(app.EnterAnswer{Index: n - 1, Value: v})
	default:
		return p.answerInOrder(fields)
	}
}

// answerInOrder applies values to questions 1..n. Every value is validated
// before the first one is applied.
func (p *Presenter) answerInOrder(fields []string) error {
	view := p.rt.App().Round()
	if view.Phase != app.InProgress {
		return domain.ErrNoRound
	}
	if len(fields) == 0 {
		return fmt.Errorf("expected at least one value after 'a'")
	}
	if len(fields) > len(view.Questions) {
		return fmt.Errorf("%w: %d values for %d questions", domain.ErrQuestionIndex, len(fields), len(view.Questions))
	}
	if view.ShowResults {
		return domain.ErrAnswersLocked
	}
	values := make([]*uint32, len(fields))
	for i, f := range fields {
		v, err := parseValue(f)
		if err != nil {
			return err
		}
		if v != nil && *v > domain.MaxAnswer {
			return fmt.Errorf("%w: %d > %d", domain.ErrAnswerOutOfRange, *v, domain.MaxAnswer)
		}
		values[i] = v
	}
	for i, v := range values {
		if err := p.rt.Send(app.EnterAnswer{Index: i, Value: v}); err != nil {
			return err
		}
	}
	p.showRound()
	return nil
}

func nextUnanswered(view app.RoundView) int {
	for i, q := range view.Questions {
		if !q.Answered() {
			return i
		}
	}
	return -1
}

// parseValue reads an answer; "-" clears it.
func parseValue(s string) (*uint32, error) {
	if s == "-" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	u := uint32(v)
	return &u, nil
}

// ParseCell reads "AxB" with 1-based factors.
func ParseCell(s string) (domain.Cell, error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return domain.Cell{}, fmt.Errorf("expected a cell like 7x8, got %q", s)
	}
	row, err1 := strconv.Atoi(strings.TrimSpace(a))
	col, err2 := strconv.Atoi(strings.TrimSpace(b))
	c := domain.Cell{Row: row - 1, Col: col - 1}
	if err1 != nil || err2 != nil || !c.Valid() {
		return domain.Cell{}, fmt.Errorf("expected a cell like 7x8, got %q", s)
	}
	return c, nil
}
