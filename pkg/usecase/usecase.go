package usecase

import (
	"github.com/secmon-lab/docdesk/pkg/console/cache"
	"github.com/secmon-lab/docdesk/pkg/console/dialog"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

type (
	SourceMutation      = Mutation[*model.Source, model.SourceInput]
	ModelConfigMutation = Mutation[*model.ModelConfig, model.ModelConfigInput]
)

// Entity labels used in notifications
const (
	SourceLabel      = "source"
	ModelConfigLabel = "model config"
)

// NewSourceMutation creates the coordinator for sources
func NewSourceMutation(remote interfaces.Remote, machine *dialog.Machine[*model.Source], invalidator Invalidator, notifier interfaces.Notifier, keys ...cache.Key) *SourceMutation {
	return NewMutation(SourceLabel, remote.Source(), machine, invalidator, notifier, keys...)
}

// NewModelConfigMutation creates the coordinator for model configs
func NewModelConfigMutation(remote interfaces.Remote, machine *dialog.Machine[*model.ModelConfig], invalidator Invalidator, notifier interfaces.Notifier, keys ...cache.Key) *ModelConfigMutation {
	return NewMutation(ModelConfigLabel, remote.ModelConfig(), machine, invalidator, notifier, keys...)
}
