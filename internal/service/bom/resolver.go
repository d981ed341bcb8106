package bom

import (
	"encoding/json"
	"fmt"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

// ComponentView — закрытый набор вариантов компонента. Реализации только в этом пакете
type ComponentView interface {
	Kind() storage.ComponentType
	isComponentView()
}

type ProductComponent struct {
	ProductID   int64
	Code        string
	Name        string
	ProductType storage.ProductType
}

func (ProductComponent) Kind() storage.ComponentType { return storage.ComponentProduct }
func (ProductComponent) isComponentView()            {}

func (p ProductComponent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind storage.ComponentType `json:"kind"`
		ID   int64                 `json:"id"`
		Code string                `json:"code"`
		Name string                `json:"name"`
		Type storage.ProductType   `json:"type"`
	}{p.Kind(), p.ProductID, p.Code, p.Name, p.ProductType})
}

type ProcessConfigComponent struct {
	ProcessConfigID int64
	Code            string
	Name            string
}

func (ProcessConfigComponent) Kind() storage.ComponentType { return storage.ComponentProcessConfig }
func (ProcessConfigComponent) isComponentView()            {}

func (p ProcessConfigComponent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind storage.ComponentType `json:"kind"`
		ID   int64                 `json:"id"`
		Code string                `json:"code"`
		Name string                `json:"name"`
	}{p.Kind(), p.ProcessConfigID, p.Code, p.Name})
}

// Resolve различает компонент по component_type. Неизвестный тип — ошибка целостности данных,
// подставлять "пустой" продукт нельзя.
func Resolve(c storage.BOMComponent) (ComponentView, error) {
	switch c.ComponentType {
	case storage.ComponentProduct:
		if err := checkDetailsType(c); err != nil {
			return nil, err
		}
		p := c.Details.Product
		if p == nil {
			return nil, errs.Validation(fieldName(c, "details.product"), "product payload is missing")
		}
		return ProductComponent{
			ProductID:   p.ID,
			Code:        p.ProductCode,
			Name:        p.Name,
			ProductType: p.ProductType,
		}, nil

	case storage.ComponentProcessConfig:
		if err := checkDetailsType(c); err != nil {
			return nil, err
		}
		pc := c.Details.ProcessConfig
		if pc == nil {
			return nil, errs.Validation(fieldName(c, "details.process_config"), "process_config payload is missing")
		}
		return ProcessConfigComponent{
			ProcessConfigID: pc.ID,
			Code:            pc.ProcessCode,
			Name:            pc.ProcessName,
		}, nil

	default:
		return nil, &errs.UnknownComponentTypeError{ComponentID: c.ID, ComponentType: string(c.ComponentType)}
	}
}

func checkDetailsType(c storage.BOMComponent) error {
	// старые записи приходят без details.type
	if c.Details.Type == "" || c.Details.Type == c.ComponentType {
		return nil
	}
	return errs.Validation(fieldName(c, "details.type"),
		fmt.Sprintf("%q does not match component_type %q", c.Details.Type, c.ComponentType))
}

func fieldName(c storage.BOMComponent, field string) string {
	if c.ID == 0 {
		return fmt.Sprintf("components[seq=%d].%s", c.SequenceOrder, field)
	}
	return fmt.Sprintf("components[%d].%s", c.ID, field)
}

// QuantityUnit — единица количества для отображения: штуки для изделий, операции для процессов
func QuantityUnit(v ComponentView) string {
	switch v.(type) {
	case ProductComponent:
		return "pcs"
	case ProcessConfigComponent:
		return "op"
	}
	panic(fmt.Sprintf("bom: unhandled component view %T", v))
}
