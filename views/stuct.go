package views

// 插值请求参数
type InterpolateData struct {
	Points         [][]float64 `json:"points"` // [x,y,z]
	Algorithm      string      `json:"algorithm"`
	Power          float64     `json:"power"`
	SearchMode     string      `json:"search_mode"`
	Radius         float64     `json:"radius"`
	MaxNeighbors   int         `json:"max_neighbors"`
	KrigingType    string      `json:"kriging_type"`
	VariogramModel string      `json:"variogram_model"`
	DriftOrder     int         `json:"drift_order"`
	Basis          string      `json:"basis"`
	Shape          float64     `json:"shape"`
	Smoothing      float64     `json:"smoothing"`
	Order          int         `json:"order"`
	Tension        float64     `json:"tension"`
	MaxIterations  int         `json:"max_iterations"`
	Convergence    float64     `json:"convergence"`
	Weighted       bool        `json:"weighted"`
	Metric         string      `json:"metric"`
	CellSize       float64     `json:"cell_size"`
	GridNX         int         `json:"grid_nx"`
	GridNY         int         `json:"grid_ny"`
	Boundary       string      `json:"boundary"` // GeoJSON Polygon/MultiPolygon
	Async          bool        `json:"async"`
}

// 等值线请求参数
type ContourData struct {
	InterpolateData
	Interval     float64   `json:"interval"`
	Levels       []float64 `json:"levels"`
	SmoothFactor float64   `json:"smooth_factor"`
}

// 三角网构建请求参数
type TriangulateData struct {
	Points    [][]float64 `json:"points"`    // [x,y,z]
	Breakline string      `json:"breakline"` // GeoJSON LineString/MultiLineString
	Concavity float64     `json:"concavity"`
}

// 网格编辑会话请求参数
type MeshSessionData struct {
	Points    [][]float64 `json:"points"`
	Breakline string      `json:"breakline"`
	Username  string      `json:"username"`
}

type MeshOpData struct {
	SessionID string  `json:"session_id"`
	A         int     `json:"a"`
	B         int     `json:"b"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Vertex    int     `json:"vertex"`
	Triangle  int     `json:"triangle"`
	Locked    bool    `json:"locked"`
}

type MeshBreaklineData struct {
	SessionID string      `json:"session_id"`
	Line      [][]float64 `json:"line"` // [x,y]
}
