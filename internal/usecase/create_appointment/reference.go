package create_appointment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// generateReference генерирует человекочитаемый номер записи вида "APT-3F2A9C41"
// Номер попадает в письма и напоминания, уникальность закреплена
// ограничением в БД
func generateReference() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("APT-%s", token[:8])
}
