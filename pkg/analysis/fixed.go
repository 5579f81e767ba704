package analysis

import "context"

// Fixed is a single calculation with the working configuration.
type Fixed struct{ BaseAnalysis }

func NewFixed() *Fixed {
	return &Fixed{}
}

func (f *Fixed) Setup(s *Session) error {
	return f.bind(s)
}

func (f *Fixed) Execute(ctx context.Context) error {
	if err := interrupted(ctx, 0); err != nil {
		return err
	}
	f.calculate()
	return nil
}
