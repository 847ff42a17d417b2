package config

import (
	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// Resolve validates the settings and builds the run configuration. st and dl
// may be nil for commands that do not download.
func Resolve(at *Airtable, st *Storage, dl *Download) (model.Config, error) {
	if err := at.Validate(); err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		APIKey:          at.APIKey,
		BaseID:          at.BaseID,
		BaseName:        at.BaseName,
		ViewName:        at.ViewName,
		AttachmentField: at.AttachmentField,
		PageSize:        at.PageSize,
	}

	if st != nil {
		cfg.AttachmentsDir = st.Dir
	}
	if dl != nil {
		if err := dl.Validate(); err != nil {
			return model.Config{}, err
		}
		cfg.DownloadInterval = dl.Interval()
	}

	return cfg, nil
}
