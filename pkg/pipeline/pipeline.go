package pipeline

import "gonum.org/v1/gonum/mat"

// Transformer interface for fit/transform pattern.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
}

// Pipeline chains multiple transformers. Each step is fitted on the output of
// the previous one.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Fit(X mat.Matrix) error {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return err
		}
		out, err := step.Transform(X)
		if err != nil {
			return err
		}
		X = out
	}
	return nil
}

func (p *Pipeline) Transform(X mat.Matrix) (*mat.Dense, error) {
	out := mat.DenseCopyOf(X)
	for _, step := range p.steps {
		next, err := step.Transform(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

func (p *Pipeline) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}
