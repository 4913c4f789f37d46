package domain

import "github.com/shopspring/decimal"

type serviceSeed struct {
	name        string
	description string
	price       int64
	kind        ServiceType
}

var serviceSeeds = []serviceSeed{
	{"Lawn Mowing", "Regular lawn mowing service with professional equipment and techniques", 45, ServiceTypeMowing},
	{"Premium Lawn Mowing", "Premium mowing service with additional cleanup and detail work", 60, ServiceTypeMowing},
	{"Weekly Lawn Mowing", "Scheduled weekly mowing service for consistent lawn maintenance", 50, ServiceTypeMowing},
	{"Trimming Service", "Precise trimming around obstacles, fences, and landscape features", 35, ServiceTypeTrimming},
	{"Detailed Trimming", "Comprehensive trimming service for shrubs, hedges, and ornamental plants", 45, ServiceTypeTrimming},
	{"Edge Trimming", "Professional edge trimming for clean, defined lawn boundaries", 40, ServiceTypeEdging},
	{"Premium Edging", "Premium edging service with precision cutting and cleanup", 50, ServiceTypeEdging},
	{"Fertilization Service", "Professional lawn fertilization with appropriate nutrients for optimal growth", 85, ServiceTypeFertilization},
	{"Organic Fertilization", "Eco-friendly organic fertilization service for sustainable lawn care", 95, ServiceTypeFertilization},
	{"Seasonal Fertilization Program", "Multi-application seasonal fertilization program for year-round lawn health", 300, ServiceTypeFertilization},
	{"Weed Control", "Comprehensive weed control treatment for healthy, weed-free lawns", 75, ServiceTypeWeedControl},
	{"Pre-Emergent Weed Control", "Preventive weed control treatment applied before weeds germinate", 80, ServiceTypeWeedControl},
	{"Spot Weed Treatment", "Targeted spot treatment for existing weed problems", 50, ServiceTypeWeedControl},
	{"Lawn Aeration", "Core aeration service to improve soil compaction and root growth", 120, ServiceTypeAeration},
	{"Aeration with Overseeding", "Combined aeration and overseeding service for complete lawn renovation", 180, ServiceTypeAeration},
	{"Overseeding Service", "Professional overseeding to improve lawn density and appearance", 150, ServiceTypeSeeding},
	{"New Lawn Seeding", "Complete new lawn seeding service with soil preparation and seed application", 250, ServiceTypeSeeding},
	{"Patch Seeding", "Spot seeding service to repair bare patches and thin areas", 80, ServiceTypeSeeding},
	{"Mulching Service", "Mulch installation and maintenance for landscape beds and gardens", 65, ServiceTypeMulching},
	{"Premium Mulch Installation", "High-quality mulch installation with weed barrier and edging", 85, ServiceTypeMulching},
	{"Leaf Removal", "Complete leaf removal and cleanup service for seasonal maintenance", 55, ServiceTypeLeafRemoval},
	{"Leaf Removal with Bagging", "Complete leaf removal service with bagging and disposal", 70, ServiceTypeLeafRemoval},
	{"Fall Cleanup Service", "Comprehensive fall cleanup including leaves, debris, and yard waste removal", 100, ServiceTypeLeafRemoval},
	{"Snow Removal", "Professional snow removal service for driveways and walkways", 80, ServiceTypeSnowRemoval},
	{"Seasonal Snow Removal Contract", "Seasonal contract for guaranteed snow removal throughout winter months", 400, ServiceTypeSnowRemoval},
	{"Premium Snow Removal", "Premium snow removal with ice treatment and thorough cleanup", 100, ServiceTypeSnowRemoval},
	{"Custom Service", "Specialized lawn care services tailored to unique property needs", 100, ServiceTypeOther},
	{"Lawn Consultation", "Professional lawn care consultation and assessment service", 75, ServiceTypeOther},
	{"Sprinkler System Maintenance", "Sprinkler system inspection, repair, and maintenance service", 90, ServiceTypeOther},
}

type equipmentSeed struct {
	name        string
	description string
	rate        int64
	kind        EquipmentType
}

var equipmentSeeds = []equipmentSeed{
	{"Commercial Lawn Mower", "Professional-grade walk-behind mower for residential and commercial lawn care", 25, EquipmentTypeMower},
	{"String Trimmer", "Gas-powered string trimmer for precise edge trimming and detail work", 20, EquipmentTypeTrimmer},
	{"Lawn Edger", "Professional edger for creating clean, defined lawn edges", 18, EquipmentTypeEdger},
	{"Leaf Blower", "Commercial-grade backpack blower for efficient debris removal", 15, EquipmentTypeBlower},
	{"Core Aerator", "Heavy-duty core aerator for soil aeration and lawn health improvement", 45, EquipmentTypeAerator},
	{"Fertilizer Spreader", "Professional broadcast spreader for even fertilizer and seed distribution", 22, EquipmentTypeSpreader},
	{"Overseeder", "Specialized overseeder for lawn renovation and seeding projects", 50, EquipmentTypeSeeder},
	{"Equipment Trailer", "Enclosed trailer for secure equipment transport and storage", 35, EquipmentTypeTrailer},
	{"Service Truck", "Commercial service truck for equipment transport and mobile operations", 75, EquipmentTypeTruck},
	{"Specialized Equipment", "Custom or specialized equipment for unique lawn care needs", 30, EquipmentTypeOther},
}

// DefaultServices returns the catalog of services a fresh installation starts with.
func DefaultServices() []*Service {
	out := make([]*Service, 0, len(serviceSeeds))
	for _, seed := range serviceSeeds {
		out = append(out, &Service{
			Name:        seed.name,
			Description: seed.description,
			BasePrice:   decimal.NewFromInt(seed.price),
			Type:        seed.kind,
			Seasons:     SeasonsFor(seed.kind),
			IsActive:    true,
		})
	}
	return out
}

// DefaultEquipment returns the equipment a fresh installation starts with.
func DefaultEquipment() []*Equipment {
	out := make([]*Equipment, 0, len(equipmentSeeds))
	for _, seed := range equipmentSeeds {
		out = append(out, &Equipment{
			Name:        seed.name,
			Description: seed.description,
			HourlyRate:  decimal.NewFromInt(seed.rate),
			Type:        seed.kind,
			IsActive:    true,
		})
	}
	return out
}
