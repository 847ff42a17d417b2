package interfaces

import "github.com/m-mizutani/airgrab/pkg/domain/model"

// GatherObserver is notified while records are gathered
type GatherObserver interface {
	OnPage(page *model.Page)
	OnRecord(record *model.Record)
	OnPageEnd(page *model.Page)
}
