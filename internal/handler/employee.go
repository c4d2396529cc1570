package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves employees and their logged hours.
type EmployeeHandler struct {
	Svc *service.Service
}

func NewEmployeeHandler(svc *service.Service) *EmployeeHandler {
	return &EmployeeHandler{Svc: svc}
}

type employeeReq struct {
	Name       string `json:"name" form:"name" binding:"required,max=120"`
	Phone      string `json:"phone" form:"phone" binding:"max=40"`
	Email      string `json:"email" form:"email" binding:"omitempty,email"`
	HourlyRate field  `json:"hourlyRate" form:"hourlyRate"`
	Position   string `json:"position" form:"position" binding:"max=80"`
	StartDate  string `json:"startDate" form:"startDate"`
	Status     string `json:"status" form:"status"`
	Notes      string `json:"notes" form:"notes" binding:"max=1000"`
}

type workHourReq struct {
	EmployeeID field  `json:"employeeId" form:"employeeId" binding:"required"`
	Date       string `json:"date" form:"date" binding:"required"`
	Hours      field  `json:"hours" form:"hours" binding:"required"`
	Notes      string `json:"notes" form:"notes" binding:"max=1000"`
}

func (h *EmployeeHandler) bind(c *gin.Context) (models.Employee, bool) {
	var req employeeReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return models.Employee{}, false
	}
	rate, err := util.ValidateOptionalAmount(req.HourlyRate.String())
	if err != nil {
		badRequest(c, err)
		return models.Employee{}, false
	}
	var start models.Date
	if req.StartDate != "" {
		if start, err = util.ValidateDate(req.StartDate); err != nil {
			badRequest(c, err)
			return models.Employee{}, false
		}
	}
	return models.Employee{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		HourlyRate: rate,
		Position:   req.Position,
		StartDate:  start,
		Status:     models.EmployeeStatus(req.Status),
		Notes:      req.Notes,
	}, true
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var f view.EmployeeFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return
	}
	util.Success(c, util.Response{
		"items": view.Employees(h.Svc.Snapshot(), f),
	})
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	e, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.Svc.AddEmployee(e)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, e)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.Svc.UpdateEmployee(id, e)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, e)
}

// Delete needs ?confirm=true and also removes the employee's hours.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleteResponse(c, h.Svc.DeleteEmployee(id, confirmation(c)))
}

// Hours lists the hours of one employee.
func (h *EmployeeHandler) Hours(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	snap := h.Svc.Snapshot()
	if !containsEmployee(snap, id) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "employee not found")
		return
	}
	util.Success(c, util.Response{
		"items": view.HoursHistory(snap, id),
	})
}

// ListHours lists every logged entry, or one employee's with ?employee=.
func (h *EmployeeHandler) ListHours(c *gin.Context) {
	id, err := models.ParseID(c.Query("employee"))
	if err != nil {
		badRequest(c, err)
		return
	}
	util.Success(c, util.Response{
		"items": view.HoursHistory(h.Svc.Snapshot(), id),
	})
}

func (h *EmployeeHandler) LogHours(c *gin.Context) {
	var req workHourReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	employeeID, ok := optionalID(c, "employee", req.EmployeeID)
	if !ok {
		return
	}
	hours, err := util.ValidateAmount(req.Hours.String())
	if err != nil {
		badRequest(c, err)
		return
	}
	date, err := util.ValidateDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	wh, err := h.Svc.LogHours(models.WorkHour{EmployeeID: employeeID, Date: date, Hours: hours, Notes: req.Notes})
	if err != nil {
		respondError(c, err)
		return
	}
	snap := h.Svc.Snapshot()
	util.Success(c, util.Response{
		"workHour":  wh,
		"hours":     view.HoursHistory(snap, employeeID),
		"employees": view.Employees(snap, view.EmployeeFilter{}),
	})
}

func (h *EmployeeHandler) DeleteHours(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleteResponse(c, h.Svc.DeleteWorkHour(id, confirmation(c)))
}

func (h *EmployeeHandler) refresh(c *gin.Context, e models.Employee) {
	util.Success(c, util.Response{
		"employee": e,
		"items":    view.Employees(h.Svc.Snapshot(), view.EmployeeFilter{}),
	})
}

func containsEmployee(snap models.Snapshot, id models.ID) bool {
	for _, e := range snap.Employees {
		if e.ID == id {
			return true
		}
	}
	return false
}
