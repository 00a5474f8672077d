package theme

import "sort"

type presetDef struct {
	title    string
	titles   map[string]string
	columns  int
	prefix   string
	elements [][3]string // query, label (fr), target (mk)
}

var presets = map[string]presetDef{
	"corps_humain": {
		title:   "Делови на телото",
		titles:  map[string]string{"fr": "Parties du corps", "en": "Body parts"},
		columns: 3,
		prefix:  "human",
		elements: [][3]string{
			{"head", "tete", "глава"},
			{"eye", "oeil", "око"},
			{"nose", "nez", "нос"},
			{"mouth", "bouche", "уста"},
			{"hand", "main", "рака"},
			{"leg", "jambe", "нога"},
			{"heart", "coeur", "срце"},
			{"stomach", "estomac", "стомак"},
			{"ear", "oreille", "уво"},
			{"hair", "cheveux", "коса"},
		},
	},
	"meteo": {
		title:   "Времето",
		titles:  map[string]string{"fr": "Météo", "en": "Weather"},
		columns: 3,
		elements: [][3]string{
			{"sun", "soleil", "сонце"},
			{"cloud", "nuage", "облак"},
			{"rain", "pluie", "дожд"},
			{"snow", "neige", "снег"},
			{"wind", "vent", "ветер"},
			{"storm", "orage", "бура"},
			{"lightning", "eclair", "молња"},
			{"fog", "brouillard", "магла"},
			{"mist", "brume", "измаглица"},
			{"hail", "grêle", "град"},
			{"thunder", "tonnerre", "грмотевица"},
			{"rainbow", "arc-en-ciel", "виножито"},
			{"temperature", "température", "температура"},
			{"hot", "chaud", "топло"},
			{"cold", "froid", "студено"},
			{"stormy", "orageux", "бурано"},
			{"sunny", "ensoleillé", "сончево"},
			{"cloudy", "nuageux", "облачно"},
		},
	},
	"animaux": {
		title:   "Животни",
		titles:  map[string]string{"fr": "Animaux", "en": "Animals"},
		columns: 3,
		elements: [][3]string{
			{"dog", "chien", "куче"},
			{"cat", "chat", "мачка"},
			{"bird", "oiseau", "птица"},
			{"fish", "poisson", "риба"},
			{"horse", "cheval", "коњ"},
			{"cow", "vache", "крава"},
			{"pig", "cochon", "свиња"},
			{"sheep", "mouton", "овца"},
		},
	},
	"salon": {
		title:   "Дневна соба",
		titles:  map[string]string{"fr": "Salon", "en": "Living room"},
		columns: 4,
		elements: [][3]string{
			{"sofa", "canapé", "кауч"},
			{"armchair", "fauteuil", "фотелја"},
			{"coffee table", "table basse", "мала маса"},
			{"side table", "table d'appoint", "странична маса"},
			{"bookshelf", "bibliothèque", "библиотека"},
			{"display cabinet", "vitrine", "витрина"},
			{"television", "télévision", "телевизор"},
			{"floor lamp", "lampe sur pied", "подна лампа"},
			{"table lamp", "lampe de table", "маса лампа"},
			{"ceiling light", "plafonnier", "таванска лампа"},
			{"carpet", "tapis", "тепих"},
			{"traditional carpet", "tapis traditionnel", "традиционален тепих"},
			{"curtain", "rideau", "завеса"},
			{"embroidered curtain", "rideau brodé", "везена завеса"},
			{"cushion", "coussin", "перница"},
			{"throw blanket", "plaid", "покривка"},
			{"fireplace", "cheminée", "камин"},
			{"icon", "icône", "икона"},
			{"family photo", "photo de famille", "семејна фотографија"},
			{"wall clock", "horloge murale", "ѕиден часовник"},
			{"traditional pottery", "poterie traditionnelle", "традиционална грнчарија"},
			{"Ohrid pottery", "poterie d'Ohrid", "охридска грнчарија"},
			{"vase", "vase", "ваза"},
			{"wooden sculpture", "sculpture en bois", "дрвена скулптура"},
			{"silver filigree", "filigrane d'argent", "сребрен филигран"},
			{"wicker basket", "panier en osier", "кошница од врба"},
			{"copper tray", "plateau en cuivre", "бакарни тацни"},
			{"tambura", "tambura", "тамбура"},
			{"kaval", "kaval", "кавал"},
			{"accordion", "accordéon", "хармоника"},
			{"indoor plant", "plante d'intérieur", "собна растение"},
			{"geranium", "géranium", "здравец"},
			{"flower pot", "pot de fleurs", "саксија за цвеќе"},
			{"rakija bottle", "bouteille de rakija", "шише ракија"},
			{"coffee set", "service à café", "комплет за кафе"},
			{"tea set", "service à thé", "комплет за чај"},
			{"embroidered tablecloth", "nappe brodée", "везена чаршав"},
			{"doily", "napperon", "мал чаршав"},
			{"magazine rack", "porte-revues", "држи за списанија"},
			{"storage basket", "panier de rangement", "кошница за чување"},
		},
	},
	"toilette": {
		title:   "Тоалет",
		titles:  map[string]string{"fr": "Salle de bain", "en": "Bathroom"},
		columns: 3,
		elements: [][3]string{
			{"toilet", "toilettes", "тоалет"},
			{"sink", "lavabo", "лавоабо"},
			{"bathtub", "baignoire", "када"},
			{"shower", "douche", "туш"},
			{"towel", "serviette", "пешкир"},
			{"mirror", "miroir", "огледало"},
			{"soap", "savon", "сапун"},
			{"toothbrush", "brosse à dents", "четка за заби"},
			{"toothpaste", "dentifrice", "паста за заби"},
			{"shampoo", "shampoing", "шампон"},
			{"toilet paper", "papier toilette", "тоалетна хартија"},
			{"bath mat", "tapis de bain", "бањски тепих"},
		},
	},
}

// PresetNames returns the built-in theme names, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsPreset reports whether name is a built-in theme
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Preset returns a fresh copy of the built-in theme called name
func Preset(name string) (*Theme, bool) {
	def, ok := presets[name]
	if !ok {
		return nil, false
	}

	elements := make([]Element, 0, len(def.elements))
	for _, e := range def.elements {
		elements = append(elements, Element{
			Query:  e[0],
			Label:  e[1],
			Target: e[2],
			Labels: map[string]string{"en": e[0]},
		})
	}

	t := New(name, elements)
	t.Title = def.title
	t.Columns = def.columns
	t.QueryPrefix = def.prefix
	t.Titles = make(map[string]string, len(def.titles))
	for lang, title := range def.titles {
		t.Titles[lang] = title
	}
	return t, true
}
