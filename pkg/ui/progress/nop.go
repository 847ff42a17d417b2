package progress

import "github.com/m-mizutani/airgrab/pkg/domain/interfaces"

// Nop discards all progress
type Nop struct{}

var _ interfaces.Renderer = Nop{}

func (Nop) Create(string) interfaces.Bar { return nopBar{} }
func (Nop) Stop()                        {}

type nopBar struct{}

func (nopBar) Update(float64) {}
func (nopBar) Complete()      {}
func (nopBar) Fail(error)     {}
func (nopBar) Retire()        {}
