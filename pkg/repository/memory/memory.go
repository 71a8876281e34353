package memory

import (
	"net/http"

	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

// Remote is an in-process implementation of the remote service contract, used in
// development mode and tests. Errors are reported the way the HTTP service reports
// them, as *model.APIError carrying a human readable message.
type Remote struct {
	source      *sourceService
	modelConfig *modelConfigService
	section     *sectionService
	search      *searchService
}

var _ interfaces.Remote = &Remote{}

func New() *Remote {
	sections := newSectionService()
	return &Remote{
		source:      newSourceService(),
		modelConfig: newModelConfigService(),
		section:     sections,
		search:      newSearchService(sections),
	}
}

func (m *Remote) Source() interfaces.SourceService {
	return m.source
}

func (m *Remote) ModelConfig() interfaces.ModelConfigService {
	return m.modelConfig
}

func (m *Remote) Section() interfaces.SectionService {
	return m.section
}

func (m *Remote) Search() interfaces.SearchService {
	return m.search
}

func notFound(msg string) error {
	return &model.APIError{Status: http.StatusNotFound, Message: msg}
}

func invalid(err error) error {
	return &model.APIError{Status: http.StatusBadRequest, Message: err.Error()}
}

func conflict(msg string) error {
	return &model.APIError{Status: http.StatusConflict, Message: msg}
}
