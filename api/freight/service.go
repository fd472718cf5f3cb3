package freight

import (
	"FreightRecon/internal/config"
	frun "FreightRecon/internal/freight"
	"FreightRecon/internal/serviceiface"
)

type FreightService struct {
	config map[string]interface{}
	runner *frun.Runner
}

func NewFreightService(cfg map[string]interface{}, runner *frun.Runner) serviceiface.Service {
	return &FreightService{config: cfg, runner: runner}
}

func (s *FreightService) Name() string {
	return "freight"
}

func (s *FreightService) Start() error {
	port := config.DefaultFreightPort
	if s.config != nil {
		switch v := s.config["port"].(type) {
		case int:
			port = v
		case float64:
			port = int(v)
		}
	}
	go StartFreightService(port, s.runner)
	return nil
}

func (s *FreightService) Stop() error {
	return nil
}
