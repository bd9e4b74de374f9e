package events

import "github.com/traytidy/traytidy/internal/logging"

type SectionTracer struct{}

type sectionReason string

const (
	SectionReasonDisabled sectionReason = "disabled"
	SectionReasonNoOwner  sectionReason = "no-owner"
	SectionReasonNoop     sectionReason = "noop"
)

var Section = SectionTracer{}

func (SectionTracer) Show(name string) {
	logging.Trace("section.show", map[string]interface{}{"section": name})
}

func (SectionTracer) Hide(name string) {
	logging.Trace("section.hide", map[string]interface{}{"section": name})
}

func (SectionTracer) Skip(name string, reason sectionReason) {
	logging.Trace("section.skip", map[string]interface{}{"section": name, "reason": string(reason)})
}

func (SectionTracer) RehideArm(name string, interval string) {
	logging.Trace("section.rehide.arm", map[string]interface{}{"section": name, "interval": interval})
}

func (SectionTracer) RehideCancel(name string) {
	logging.Trace("section.rehide.cancel", map[string]interface{}{"section": name})
}

func (SectionTracer) RehideFire(name string, hidden bool) {
	logging.Trace("section.rehide.fire", map[string]interface{}{"section": name, "hidden": hidden})
}

func (SectionTracer) RehideStop(name string) {
	logging.Trace("section.rehide.stop", map[string]interface{}{"section": name})
}
