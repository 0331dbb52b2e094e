// Package script drives a Processor from a YAML list of submit and cancel steps.
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/price"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

var errInvalidStep = errors.New("invalid script step")

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

func getValidator() *validator.Validate {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate
}

type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of Submit or Cancel.
type Step struct {
	Submit *SubmitStep `yaml:"submit,omitempty"`
	Cancel *uint64     `yaml:"cancel,omitempty"`
}

type SubmitStep struct {
	Type  string `yaml:"type" validate:"required,oneof=LIMIT MARKET"`
	Side  string `yaml:"side" validate:"required,oneof=BUY SELL"`
	Qty   int64  `yaml:"qty" validate:"gt=0"`
	Price string `yaml:"price,omitempty" validate:"omitempty,numeric"`
}

func (s Step) String() string {
	switch {
	case s.Submit != nil && s.Submit.Price != "":
		return fmt.Sprintf("submit %s %s %d @ %s", s.Submit.Type, s.Submit.Side, s.Submit.Qty, s.Submit.Price)
	case s.Submit != nil:
		return fmt.Sprintf("submit %s %s %d", s.Submit.Type, s.Submit.Side, s.Submit.Qty)
	case s.Cancel != nil:
		return fmt.Sprintf("cancel %d", *s.Cancel)
	}
	return "empty step"
}

// Request converts a submit step into an engine request.
func (s *SubmitStep) Request(tick price.TickSize) (orderbook.OrderRequest, error) {
	if err := getValidator().Struct(s); err != nil {
		return orderbook.OrderRequest{}, fmt.Errorf("%w: %v", orderbook.ErrInvalidOrder, err)
	}

	typ, err := orderbook.ParseOrderType(s.Type)
	if err != nil {
		return orderbook.OrderRequest{}, err
	}
	side, err := orderbook.ParseSide(s.Side)
	if err != nil {
		return orderbook.OrderRequest{}, err
	}

	req := orderbook.OrderRequest{Type: typ, Side: side, Qty: s.Qty}
	if s.Price != "" {
		ticks, err := tick.Parse(s.Price)
		if err != nil {
			return orderbook.OrderRequest{}, fmt.Errorf("%w: %w", orderbook.ErrInvalidOrder, err)
		}
		req.Price = &ticks
	}
	return req, nil
}

func Parse(raw []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	for i, st := range s.Steps {
		if (st.Submit == nil) == (st.Cancel == nil) {
			return nil, fmt.Errorf("%w: step %d needs exactly one of submit or cancel", errInvalidStep, i+1)
		}
	}
	return s, nil
}

func Load(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Demo is the built-in six step walkthrough.
func Demo() *Script {
	s, err := Parse(demoYAML)
	if err != nil {
		panic(err)
	}
	return s
}

type Outcome struct {
	Index  int
	Step   Step
	Result *orderbook.SubmitResult // nil for cancels and rejected submits
	Err    error
}

// Run executes steps in order. Rejected orders and cancels are recorded in
// the outcome; only a stopped processor or a done context aborts the run.
func Run(ctx context.Context, proc *orderbook.Processor, s *Script, tick price.TickSize, fn func(Outcome)) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(s.Steps))

	for i, st := range s.Steps {
		out := Outcome{Index: i + 1, Step: st}

		switch {
		case st.Submit != nil:
			req, err := st.Submit.Request(tick)
			if err != nil {
				out.Err = err
				break
			}
			out.Result, out.Err = proc.Submit(ctx, req)
		case st.Cancel != nil:
			out.Err = proc.Cancel(ctx, *st.Cancel)
		}

		if errors.Is(out.Err, orderbook.ErrProcessorStopped) || errors.Is(out.Err, context.Canceled) ||
			errors.Is(out.Err, context.DeadlineExceeded) {
			return outcomes, out.Err
		}

		outcomes = append(outcomes, out)
		if fn != nil {
			fn(out)
		}
	}

	return outcomes, nil
}
