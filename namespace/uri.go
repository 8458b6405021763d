package namespace

// 已知元模型站点的根地址，默认解析器会把这两个前缀重定向到本地缓存目录。
const (
	URLCompRob2b = "https://comp-rob2b.github.io"
	URLSecoro    = "https://secorolab.github.io"
	URLSecoroMM  = URLSecoro + "/metamodels"
	URLSecoroM   = URLSecoro + "/models"
)

// QUDT
const (
	URIMMQudt          = "http://qudt.org/schema/qudt/"
	URIMMQudtQty       = "http://qudt.org/vocab/quantitykind/"
	URIMMQudtUnit      = "http://qudt.org/vocab/unit/"
	URLMMQudtJSON      = URLCompRob2b + "/metamodels/qudt.json"
	URIMMGeom          = URLCompRob2b + "/metamodels/geometry/structural-entities#"
	URIMMGeomRel       = URLCompRob2b + "/metamodels/geometry/spatial-relations#"
	URIMMGeomCoord     = URLCompRob2b + "/metamodels/geometry/coordinates#"
	URLMMGeomJSON      = URLCompRob2b + "/metamodels/geometry/structural-entities.json"
	URLMMGeomRelJSON   = URLCompRob2b + "/metamodels/geometry/spatial-relations.json"
	URLMMGeomCoordJSON = URLCompRob2b + "/metamodels/geometry/coordinates.json"
)

// secorolab 元模型
const (
	URLMMGeomCoordSecoJSON = URLSecoroMM + "/geometry/coordinates.json"
	URLMMGeomShacl         = URLSecoroMM + "/geometry/geometry.shacl.ttl"

	URIMMPython      = URLSecoroMM + "/languages/python#"
	URLMMPythonJSON  = URLSecoroMM + "/languages/python.json"
	URLMMPythonShacl = URLSecoroMM + "/languages/python.shacl.ttl"

	URIMMEnv  = URLSecoroMM + "/environment#"
	URIMMAgn  = URLSecoroMM + "/agent#"
	URIMMTime = URLSecoroMM + "/time#"

	URIMMEventLoop      = URLSecoroMM + "/behaviour/event_loop#"
	URLMMEventLoopJSON  = URLSecoroMM + "/behaviour/event_loop.json"
	URLMMEventLoopShacl = URLSecoroMM + "/behaviour/event_loop.shacl.ttl"

	URIMMDistrib      = URLSecoroMM + "/probability/distribution#"
	URLMMDistribJSON  = URLSecoroMM + "/probability/distribution.json"
	URLMMDistribShacl = URLSecoroMM + "/probability/distribution.shacl.ttl"
)

// W3C 基础词汇表。
const (
	URIRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	URIRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	URIXSD  = "http://www.w3.org/2001/XMLSchema#"
	URIOWL  = "http://www.w3.org/2002/07/owl#"
)
