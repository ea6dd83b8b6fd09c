package api

import "RiverCampDash/internal/serviceiface"

type GatewayService struct {
	config map[string]interface{}
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	port := 8080
	if v, ok := s.config["port"].(int); ok && v > 0 {
		port = v
	}
	go StartGateway(port, reportsTarget(s.config))
	return nil
}

func (s *GatewayService) Stop() error {
	return nil
}
