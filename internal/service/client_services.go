package service

import (
	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type ClientServices struct {
	AuthService ClientAuthService
}

func NewClientServices(serverAdapter adapter.ServerAdapter, session *models.ClientSession, logger *logger.Logger) *ClientServices {
	return &ClientServices{
		AuthService: NewClientAuthService(serverAdapter, session, logger),
	}
}
