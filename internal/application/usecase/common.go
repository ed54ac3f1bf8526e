package usecase

import (
	"strings"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// normalizeCode limpia espacios; el código es la llave de negocio única de cada catálogo.
func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}

func listFilter(q string, page dto.PageRequest) repository.ListFilter {
	page.Normalize()
	return repository.ListFilter{Query: strings.TrimSpace(q), Offset: page.Skip, Limit: page.Limit}
}

func toAuditResponse(a entity.Audit) dto.AuditResponse {
	return dto.AuditResponse{
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedBy: a.UpdatedBy,
		UpdatedAt: a.UpdatedAt,
	}
}
